// Package models defines the core domain models of the careers page builder:
// the Company aggregate and the Theme, Section and Job values embedded in it.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the root aggregate. Everything a careers page needs is stored
// on the company record itself.
type Company struct {
	// ID is assigned at creation and never changes.
	ID uuid.UUID `json:"id"`
	// Slug is the unique, immutable lookup key used in URLs and sessions.
	Slug string `json:"slug"`
	// Name is the optional display name; empty means unset.
	Name string `json:"name,omitempty"`
	// Theme holds brand colors and media URLs.
	Theme Theme `json:"theme"`
	// Sections is the ordered list of content blocks.
	Sections []Section `json:"sections"`
	// Jobs is the list of postings shown on the public page.
	Jobs []Job `json:"jobs"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the company name, falling back to the slug.
func (c *Company) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Slug
}

// CompanyUpdate carries a whole-field replacement for one or more top-level
// fields of a Company. Nil pointers leave the stored value untouched; a
// non-nil pointer replaces the entire field, never merging inside it.
type CompanyUpdate struct {
	// Slug identifies the company to update.
	Slug string
	// Name is the new display name; a pointer to "" clears it.
	Name *string
	// Theme replaces the whole theme.
	Theme *Theme
	// Sections replaces the whole section list.
	Sections *[]Section
	// Jobs replaces the whole job list.
	Jobs *[]Job
}

// IsEmpty reports whether the update carries no field at all.
func (u *CompanyUpdate) IsEmpty() bool {
	return u.Name == nil && u.Theme == nil && u.Sections == nil && u.Jobs == nil
}
