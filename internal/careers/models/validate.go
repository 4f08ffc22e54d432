package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/go-playground/validator/v10"
)

const maxSlugLength = 50

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	validate    = validator.New(validator.WithRequiredStructEnabled())
)

// ValidateSlug checks the lowercase alphanumeric-and-hyphen slug format.
func ValidateSlug(slug string) error {
	if slug == "" || len(slug) > maxSlugLength {
		return fmt.Errorf("%w: slug must be 1-%d characters", e.ErrInvalidInput, maxSlugLength)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug may only contain lowercase letters, digits and hyphens", e.ErrInvalidInput)
	}
	return nil
}

// Validate checks the media URLs of the theme.
func (t Theme) Validate() error {
	return structError("theme", validate.Struct(t))
}

// ValidateSections checks each section and that ids are unique.
func ValidateSections(sections []Section) error {
	seen := make(map[string]struct{}, len(sections))
	for i, s := range sections {
		if err := structError(fmt.Sprintf("sections[%d]", i), validate.Struct(s)); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %q", e.ErrInvalidInput, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// ValidateJobs checks each job and that ids are unique.
func ValidateJobs(jobs []Job) error {
	seen := make(map[string]struct{}, len(jobs))
	for i, j := range jobs {
		if err := structError(fmt.Sprintf("jobs[%d]", i), validate.Struct(j)); err != nil {
			return err
		}
		if _, dup := seen[j.ID]; dup {
			return fmt.Errorf("%w: duplicate job id %q", e.ErrInvalidInput, j.ID)
		}
		seen[j.ID] = struct{}{}
	}
	return nil
}

// structError turns validator output into an ErrInvalidInput naming the
// offending fields.
func structError(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", e.ErrInvalidInput, prefix, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s.%s failed %q", prefix, strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, strings.Join(msgs, "; "))
}
