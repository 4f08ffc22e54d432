package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	e "github.com/gartstein/careers/internal/careers/errors"
)

// SectionType is the kind of a content section.
type SectionType string

const (
	SectionAbout    SectionType = "about"
	SectionLife     SectionType = "life"
	SectionBenefits SectionType = "benefits"
	SectionValues   SectionType = "values"
	SectionCulture  SectionType = "culture"
	SectionTeam     SectionType = "team"
	SectionCustom   SectionType = "custom"
)

// SectionTypes lists every valid SectionType in display order.
var SectionTypes = []SectionType{
	SectionAbout, SectionLife, SectionBenefits, SectionValues, SectionCulture, SectionTeam, SectionCustom,
}

// SectionField names one editable field of a Section.
type SectionField string

const (
	SectionFieldType      SectionField = "type"
	SectionFieldTitle     SectionField = "title"
	SectionFieldContent   SectionField = "content"
	SectionFieldIsVisible SectionField = "is_visible"
)

// Section is a titled block of page content. Order defines display sequence.
type Section struct {
	ID        string         `json:"id" validate:"required"`
	Type      SectionType    `json:"type" validate:"required,oneof=about life benefits values culture team custom"`
	Title     string         `json:"title"`
	Content   SectionContent `json:"content"`
	Order     int            `json:"order" validate:"gte=0"`
	IsVisible bool           `json:"is_visible"`
}

// SectionContent is either free text or a structured record. It keeps the
// raw JSON so a record survives a round trip untouched.
type SectionContent struct {
	raw json.RawMessage
}

// TextContent returns content holding the plain string s.
func TextContent(s string) SectionContent {
	b, _ := json.Marshal(s)
	return SectionContent{raw: b}
}

// RecordContent returns content holding the JSON object encoding of v.
func RecordContent(v map[string]any) (SectionContent, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return SectionContent{}, err
	}
	return SectionContent{raw: b}, nil
}

// Text renders the content as text: the string itself, or the compact JSON
// of a record.
func (c SectionContent) Text() string {
	if len(c.raw) == 0 {
		return ""
	}
	if c.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(c.raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, c.raw); err != nil {
		return string(c.raw)
	}
	return buf.String()
}

// IsRecord reports whether the content is a structured record.
func (c SectionContent) IsRecord() bool {
	return len(c.raw) > 0 && c.raw[0] == '{'
}

// Equal reports whether both contents render to the same value.
func (c SectionContent) Equal(other SectionContent) bool {
	return c.IsRecord() == other.IsRecord() && c.Text() == other.Text()
}

// MarshalJSON emits the raw content, defaulting to an empty string.
func (c SectionContent) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte(`""`), nil
	}
	return c.raw, nil
}

// UnmarshalJSON accepts a JSON string, a JSON object or null.
func (c *SectionContent) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.raw = nil
		return nil
	}
	if trimmed[0] != '"' && trimmed[0] != '{' {
		return fmt.Errorf("%w: section content must be a string or an object", e.ErrInvalidInput)
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: section content is not valid JSON", e.ErrInvalidInput)
	}
	c.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// Equal reports whether two sections hold the same values.
func (s Section) Equal(other Section) bool {
	return s.ID == other.ID &&
		s.Type == other.Type &&
		s.Title == other.Title &&
		s.Content.Equal(other.Content) &&
		s.Order == other.Order &&
		s.IsVisible == other.IsVisible
}

// CloneSections returns a copy of sections that can be mutated freely.
func CloneSections(sections []Section) []Section {
	if sections == nil {
		return []Section{}
	}
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// SectionsEqual compares two section lists element by element.
func SectionsEqual(a, b []Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
