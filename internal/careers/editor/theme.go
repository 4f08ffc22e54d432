package editor

import (
	"context"
	"fmt"
	"time"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
)

// Saver writes a whole-field update and returns the stored company.
type Saver interface {
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
}

// ThemeEditor is the draft of one company's theme.
type ThemeEditor struct {
	slug  string
	saver Saver
	d     *draft[models.Theme]
}

// NewThemeEditor starts a Clean draft of persisted, stored at version.
func NewThemeEditor(slug string, persisted models.Theme, version time.Time, saver Saver) *ThemeEditor {
	return &ThemeEditor{
		slug:  slug,
		saver: saver,
		d: newDraft(persisted, version,
			func(a, b models.Theme) bool { return a == b },
			func(t models.Theme) models.Theme { return t },
		),
	}
}

// Set changes one field of the draft.
func (t *ThemeEditor) Set(field models.ThemeField, value string) error {
	return t.d.edit(func(theme models.Theme) (models.Theme, error) {
		next, ok := theme.With(field, value)
		if !ok {
			return theme, fmt.Errorf("%w: unknown theme field %q", e.ErrInvalidInput, field)
		}
		return next, nil
	})
}

// Draft returns the current draft.
func (t *ThemeEditor) Draft() models.Theme {
	return t.d.value()
}

func (t *ThemeEditor) Status() Status {
	return t.d.status()
}

// Save writes the draft as the company's whole theme.
func (t *ThemeEditor) Save(ctx context.Context) (models.Theme, error) {
	return t.d.save(ctx, nil, func(ctx context.Context, theme models.Theme) (models.Theme, time.Time, error) {
		company, err := t.saver.UpdateCompany(ctx, &models.CompanyUpdate{Slug: t.slug, Theme: &theme})
		if err != nil {
			return models.Theme{}, time.Time{}, err
		}
		return company.Theme, company.UpdatedAt, nil
	})
}

// Refresh adopts a theme stored at at if the draft is Clean and at is newer
// than the theme it holds.
func (t *ThemeEditor) Refresh(theme models.Theme, at time.Time) bool {
	return t.d.refresh(theme, at)
}
