package editor

import (
	"context"
	"fmt"
	"time"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/google/uuid"
)

// Direction is the way Move shifts a section.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// SectionBuilder is the draft of one company's ordered section list.
type SectionBuilder struct {
	slug  string
	saver Saver
	d     *draft[[]models.Section]
	newID func() string
}

// NewSectionBuilder starts a Clean draft of persisted, stored at version.
func NewSectionBuilder(slug string, persisted []models.Section, version time.Time, saver Saver) *SectionBuilder {
	return &SectionBuilder{
		slug:  slug,
		saver: saver,
		d:     newDraft(persisted, version, models.SectionsEqual, models.CloneSections),
		newID: uuid.NewString,
	}
}

// Add appends a visible custom section with an empty title and content.
func (b *SectionBuilder) Add() models.Section {
	var added models.Section
	_ = b.d.edit(func(sections []models.Section) ([]models.Section, error) {
		added = models.Section{
			ID:        b.newID(),
			Type:      models.SectionCustom,
			Content:   models.TextContent(""),
			Order:     len(sections),
			IsVisible: true,
		}
		return append(sections, added), nil
	})
	return added
}

// Remove deletes the section with id, keeping the others in order.
func (b *SectionBuilder) Remove(id string) error {
	return b.d.edit(func(sections []models.Section) ([]models.Section, error) {
		i := indexOf(sections, id)
		if i < 0 {
			return sections, fmt.Errorf("%w: section %q", e.ErrNotFound, id)
		}
		return append(sections[:i], sections[i+1:]...), nil
	})
}

// Move swaps the section at index with its neighbour in dir. Moving the
// first section up or the last one down does nothing.
func (b *SectionBuilder) Move(index int, dir Direction) error {
	return b.d.edit(func(sections []models.Section) ([]models.Section, error) {
		if index < 0 || index >= len(sections) {
			return sections, fmt.Errorf("%w: section index %d out of range", e.ErrInvalidInput, index)
		}
		var target int
		switch dir {
		case Up:
			target = index - 1
		case Down:
			target = index + 1
		default:
			return sections, fmt.Errorf("%w: unknown direction %q", e.ErrInvalidInput, dir)
		}
		if target < 0 || target >= len(sections) {
			return sections, nil
		}
		sections[index], sections[target] = sections[target], sections[index]
		return sections, nil
	})
}

// SetField replaces one field of the section with id. value must be a
// string for type and title, a bool for is_visible, and a string, a
// map[string]any or nil for content.
func (b *SectionBuilder) SetField(id string, field models.SectionField, value any) error {
	return b.d.edit(func(sections []models.Section) ([]models.Section, error) {
		i := indexOf(sections, id)
		if i < 0 {
			return sections, fmt.Errorf("%w: section %q", e.ErrNotFound, id)
		}
		s := &sections[i]
		switch field {
		case models.SectionFieldType:
			v, ok := value.(string)
			if !ok || !validType(models.SectionType(v)) {
				return sections, fmt.Errorf("%w: invalid section type %v", e.ErrInvalidInput, value)
			}
			s.Type = models.SectionType(v)
		case models.SectionFieldTitle:
			v, ok := value.(string)
			if !ok {
				return sections, fmt.Errorf("%w: title must be a string", e.ErrInvalidInput)
			}
			s.Title = v
		case models.SectionFieldContent:
			content, err := toContent(value)
			if err != nil {
				return sections, err
			}
			s.Content = content
		case models.SectionFieldIsVisible:
			v, ok := value.(bool)
			if !ok {
				return sections, fmt.Errorf("%w: is_visible must be a boolean", e.ErrInvalidInput)
			}
			s.IsVisible = v
		default:
			return sections, fmt.Errorf("%w: unknown section field %q", e.ErrInvalidInput, field)
		}
		return sections, nil
	})
}

// Toggle flips the visibility of the section with id.
func (b *SectionBuilder) Toggle(id string) error {
	return b.d.edit(func(sections []models.Section) ([]models.Section, error) {
		i := indexOf(sections, id)
		if i < 0 {
			return sections, fmt.Errorf("%w: section %q", e.ErrNotFound, id)
		}
		sections[i].IsVisible = !sections[i].IsVisible
		return sections, nil
	})
}

// Draft returns a copy of the current draft.
func (b *SectionBuilder) Draft() []models.Section {
	return b.d.value()
}

func (b *SectionBuilder) Status() Status {
	return b.d.status()
}

// Save renumbers order to match list position and writes the whole list.
func (b *SectionBuilder) Save(ctx context.Context) ([]models.Section, error) {
	return b.d.save(ctx, renumber, func(ctx context.Context, sections []models.Section) ([]models.Section, time.Time, error) {
		company, err := b.saver.UpdateCompany(ctx, &models.CompanyUpdate{Slug: b.slug, Sections: &sections})
		if err != nil {
			return nil, time.Time{}, err
		}
		return company.Sections, company.UpdatedAt, nil
	})
}

// Refresh adopts a list stored at at if the draft is Clean and at is newer
// than the list it holds.
func (b *SectionBuilder) Refresh(sections []models.Section, at time.Time) bool {
	return b.d.refresh(sections, at)
}

func renumber(sections []models.Section) []models.Section {
	for i := range sections {
		sections[i].Order = i
	}
	return sections
}

func indexOf(sections []models.Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

func validType(t models.SectionType) bool {
	for _, known := range models.SectionTypes {
		if t == known {
			return true
		}
	}
	return false
}

func toContent(value any) (models.SectionContent, error) {
	switch v := value.(type) {
	case nil:
		return models.TextContent(""), nil
	case string:
		return models.TextContent(v), nil
	case models.SectionContent:
		return v, nil
	case map[string]any:
		content, err := models.RecordContent(v)
		if err != nil {
			return models.SectionContent{}, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
		}
		return content, nil
	default:
		return models.SectionContent{}, fmt.Errorf("%w: content must be a string or an object", e.ErrInvalidInput)
	}
}
