package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/careers/internal/careers/db"
	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/events"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedError records why one company could not be seeded.
type SeedError struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// SeedResult summarises a SeedCompanies run.
type SeedResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Errors  []SeedError `json:"errors"`
}

// companyStore is the subset of the repository used inside a seed
// transaction.
type companyStore interface {
	GetCompany(ctx context.Context, slug string) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
}

// SeedCompanies upserts every company by slug, each in its own transaction.
// A failing company is reported in the result and does not stop the run.
func (s *CompanyService) SeedCompanies(ctx context.Context, companies []*models.Company) *SeedResult {
	result := &SeedResult{Errors: []SeedError{}}
	for i, c := range companies {
		if c == nil {
			result.Errors = append(result.Errors, SeedError{Error: fmt.Sprintf("%s: company %d is null", e.ErrInvalidInput, i)})
			continue
		}
		if err := validateCompany(c); err != nil {
			result.Errors = append(result.Errors, SeedError{Slug: c.Slug, Error: err.Error()})
			continue
		}

		var (
			created bool
			stored  *models.Company
		)
		err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
			var err error
			stored, created, err = upsert(ctx, tx, c)
			return err
		})
		if err != nil {
			s.logger.Warn("Failed to seed company", zap.String("slug", c.Slug), zap.Error(err))
			result.Errors = append(result.Errors, SeedError{Slug: c.Slug, Error: err.Error()})
			continue
		}

		if created {
			result.Created++
			s.publish(events.CompanyCreated, stored)
		} else {
			result.Updated++
			s.publish(events.CompanyUpdated, stored)
		}
	}

	s.logger.Info("Seed finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// upsert updates the company stored under c.Slug or creates it. Only the
// fields present on c overwrite an existing record.
func upsert(ctx context.Context, store companyStore, c *models.Company) (*models.Company, bool, error) {
	_, err := store.GetCompany(ctx, c.Slug)
	switch {
	case errors.Is(err, e.ErrNotFound):
		fresh := *c
		fresh.ID = uuid.New()
		if fresh.Sections == nil {
			fresh.Sections = []models.Section{}
		}
		if fresh.Jobs == nil {
			fresh.Jobs = []models.Job{}
		}
		if err := store.CreateCompany(ctx, &fresh); err != nil {
			return nil, false, err
		}
		return &fresh, true, nil
	case err != nil:
		return nil, false, err
	}

	update := &models.CompanyUpdate{Slug: c.Slug, Theme: &c.Theme}
	if c.Name != "" {
		update.Name = &c.Name
	}
	if c.Sections != nil {
		update.Sections = &c.Sections
	}
	if c.Jobs != nil {
		update.Jobs = &c.Jobs
	}
	if err := store.UpdateCompany(ctx, update); err != nil {
		return nil, false, err
	}
	stored, err := store.GetCompany(ctx, c.Slug)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}
