// Package controller implements the core business logic (service layer)
// for managing Company records, orchestrating repository operations
// and sending relevant events.
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

// EventProducer queues company events. Produce must not block, and events
// of one company must be sent in the order they were produced.
type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// Repository defines the storage interface for Company objects.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, slug string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, slug string) error
	CompanyExistsBySlug(ctx context.Context, slug string) (bool, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany validates and stores a new company under its slug and
// triggers a creation event.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	exists, err := s.repo.CompanyExistsBySlug(ctx, company.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateSlug
	}

	company.ID = uuid.New()
	if company.Sections == nil {
		company.Sections = []models.Section{}
	}
	if company.Jobs == nil {
		company.Jobs = []models.Job{}
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		// A concurrent create can still win the race after the existence check.
		if errors.Is(err, e.ErrDuplicateSlug) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.publish(events.CompanyCreated, company)
	return company, nil
}

// GetCompany retrieves a Company by slug, returning ErrNotFound if absent.
func (s *CompanyService) GetCompany(ctx context.Context, slug string) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, slug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListCompanies returns every company, newest first.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	list, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return list, nil
}

// UpdateCompany replaces the fields present in update, then fetches the
// stored version for returning and event production.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.Slug == "" {
		return nil, fmt.Errorf("%w: missing company slug", e.ErrInvalidInput)
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.Slug)
	if err != nil {
		s.logger.Error("Failed to get company after update",
			zap.Error(err),
			zap.String("slug", update.Slug),
		)
		return nil, err
	}
	s.publish(events.CompanyUpdated, updated)
	return updated, nil
}

// DeleteCompany removes a Company by slug and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, slug string) error {
	company, err := s.repo.GetCompany(ctx, slug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, slug); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.publish(events.CompanyDeleted, company)
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *CompanyService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish hands the event to the producer in call order; Produce never
// blocks.
func (s *CompanyService) publish(eventType events.EventType, company *models.Company) {
	s.producer.Produce(eventType, company)
}

func validateCompany(c *models.Company) error {
	if err := models.ValidateSlug(c.Slug); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	if err := models.ValidateSections(c.Sections); err != nil {
		return err
	}
	return models.ValidateJobs(c.Jobs)
}

func validateUpdate(u *models.CompanyUpdate) error {
	if u.Theme != nil {
		if err := u.Theme.Validate(); err != nil {
			return err
		}
	}
	if u.Sections != nil {
		if err := models.ValidateSections(*u.Sections); err != nil {
			return err
		}
	}
	if u.Jobs != nil {
		if err := models.ValidateJobs(*u.Jobs); err != nil {
			return err
		}
	}
	return nil
}
