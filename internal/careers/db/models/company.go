// Package models contains the persistence models for the careers service,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	domain "github.com/gartstein/careers/internal/careers/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Company is the row stored in the companies table. Theme, sections and
// jobs live in JSON columns (JSONB on Postgres).
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug      string    `gorm:"size:50;uniqueIndex;not null"`
	Name      *string   `gorm:"size:255"`
	Theme     datatypes.JSONType[domain.Theme]
	Sections  datatypes.JSONType[[]domain.Section]
	Jobs      datatypes.JSONType[[]domain.Job]
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Company) TableName() string { return "companies" }

// FromDomain builds a row from a domain company.
func FromDomain(c *domain.Company) *Company {
	row := &Company{
		ID:        c.ID,
		Slug:      c.Slug,
		Theme:     datatypes.NewJSONType(c.Theme),
		Sections:  datatypes.NewJSONType(nonNil(c.Sections)),
		Jobs:      datatypes.NewJSONType(nonNil(c.Jobs)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Name != "" {
		name := c.Name
		row.Name = &name
	}
	return row
}

// ToDomain converts the row into a domain company.
func (r *Company) ToDomain() *domain.Company {
	c := &domain.Company{
		ID:        r.ID,
		Slug:      r.Slug,
		Theme:     r.Theme.Data(),
		Sections:  nonNil(r.Sections.Data()),
		Jobs:      nonNil(r.Jobs.Data()),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Name != nil {
		c.Name = *r.Name
	}
	return c
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
