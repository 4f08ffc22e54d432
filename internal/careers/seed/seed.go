// Package seed loads company fixtures from YAML or JSON files and provides
// the built-in sample companies.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/pkg/utils"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a fixture file. YAML and JSON are both accepted.
func LoadFile(path string) ([]*models.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture document: either a list of companies or an object
// with a "companies" list.
func Parse(data []byte) ([]*models.Company, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed fixture: %v", e.ErrInvalidInput, err)
	}
	if m, ok := doc.(map[string]any); ok {
		doc = m["companies"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: fixture must contain a list of companies", e.ErrInvalidInput)
	}

	// Company values carry JSON tags and custom JSON decoding, so the
	// generic YAML tree is re-encoded as JSON before decoding.
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("%w: fixture is not representable as JSON: %v", e.ErrInvalidInput, err)
	}
	var companies []*models.Company
	if err := json.Unmarshal(raw, &companies); err != nil {
		return nil, fmt.Errorf("%w: malformed company: %v", e.ErrInvalidInput, err)
	}
	for i, c := range companies {
		if c == nil {
			return nil, fmt.Errorf("%w: company %d is empty", e.ErrInvalidInput, i)
		}
	}
	return companies, nil
}

// SampleCompanies returns the built-in demo companies acme-corp and
// tech-startup.
func SampleCompanies() []*models.Company {
	return []*models.Company{
		{
			Slug: "acme-corp",
			Name: "Acme Corporation",
			Theme: models.Theme{
				Primary:   "#3b82f6",
				Secondary: "#8b5cf6",
				Accent:    "#10b981",
			},
			Sections: []models.Section{
				{ID: "1", Type: models.SectionAbout, Title: "About Us", Content: models.TextContent("We are a leading technology company..."), Order: 0, IsVisible: true},
				{ID: "2", Type: models.SectionBenefits, Title: "Benefits", Content: models.TextContent("Competitive salary, health insurance, remote work..."), Order: 1, IsVisible: true},
			},
			Jobs: []models.Job{
				{
					ID:           "1",
					Title:        "Senior Software Engineer",
					Description:  "We are looking for an experienced software engineer...",
					Location:     "San Francisco, CA",
					JobType:      models.FullTime,
					Department:   "Engineering",
					Requirements: []string{"5+ years experience", "React, Node.js", "Team leadership"},
					Benefits:     []string{"Health insurance", "401k", "Remote work"},
					IsActive:     utils.Ptr(true),
				},
				{
					ID:           "2",
					Title:        "Product Designer",
					Description:  "Join our design team...",
					Location:     "New York, NY",
					JobType:      models.FullTime,
					Department:   "Design",
					Requirements: []string{"3+ years experience", "Figma, UI/UX"},
					Benefits:     []string{"Health insurance", "Flexible hours"},
					IsActive:     utils.Ptr(true),
				},
			},
		},
		{
			Slug: "tech-startup",
			Name: "Tech Startup Inc",
			Theme: models.Theme{
				Primary:   "#ef4444",
				Secondary: "#f59e0b",
				Accent:    "#06b6d4",
			},
			Sections: []models.Section{
				{ID: "1", Type: models.SectionAbout, Title: "Our Story", Content: models.TextContent("Founded in 2020..."), Order: 0, IsVisible: true},
			},
			Jobs: []models.Job{
				{
					ID:           "1",
					Title:        "Frontend Developer",
					Description:  "Build amazing user interfaces...",
					Location:     "Remote",
					JobType:      models.FullTime,
					Department:   "Engineering",
					Requirements: []string{"React, TypeScript", "2+ years"},
					Benefits:     []string{"Remote work", "Stock options"},
					IsActive:     utils.Ptr(true),
				},
			},
		},
	}
}
