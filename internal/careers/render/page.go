// Package render projects a stored company into its public careers page:
// the themed view model, SEO metadata, JSON-LD, and the HTML templates.
package render

import (
	"sort"
	"strings"

	"github.com/gartstein/careers/internal/careers/jobs"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/careers/video"
)

// Tagline is shown under the company name in the hero.
const Tagline = "Join Our Team"

// Hero is the banner at the top of the page.
type Hero struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Logo    string `json:"logo,omitempty"`
	Banner  string `json:"banner,omitempty"`
}

// Colors are the theme colors with defaults applied.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Section is a visible content block rendered as text.
type Section struct {
	ID      string             `json:"id"`
	Type    models.SectionType `json:"type"`
	Title   string             `json:"title"`
	Content string             `json:"content"`
}

// Page is the projection of a company shown to candidates.
type Page struct {
	Slug     string       `json:"slug"`
	Hero     Hero         `json:"hero"`
	Colors   Colors       `json:"colors"`
	VideoURL string       `json:"video_url,omitempty"`
	Sections []Section    `json:"sections"`
	Jobs     []models.Job `json:"jobs"`
	Facets   jobs.Facets  `json:"facets"`
}

// Project builds the public page of c. It has no side effects and returns
// the same page for the same company.
func Project(c *models.Company) Page {
	visible := make([]models.Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.IsVisible {
			visible = append(visible, s)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Order < visible[j].Order })

	sections := make([]Section, 0, len(visible))
	for _, s := range visible {
		sections = append(sections, Section{
			ID:      s.ID,
			Type:    s.Type,
			Title:   s.Title,
			Content: s.Content.Text(),
		})
	}

	active := jobs.Active(c.Jobs)
	return Page{
		Slug: c.Slug,
		Hero: Hero{
			Name:    c.DisplayName(),
			Tagline: Tagline,
			Logo:    c.Theme.Logo,
			Banner:  c.Theme.Banner,
		},
		Colors: Colors{
			Primary:   c.Theme.PrimaryOrDefault(),
			Secondary: c.Theme.SecondaryOrDefault(),
			Accent:    c.Theme.AccentOrDefault(),
		},
		VideoURL: video.EmbedURL(c.Theme.Video),
		Sections: sections,
		Jobs:     active,
		Facets:   jobs.FacetsOf(active),
	}
}

// JobTypeLabel renders a job type for display: "full-time" becomes
// "Full Time".
func JobTypeLabel(t models.JobType) string {
	words := strings.Fields(strings.Replace(string(t), "-", " ", 1))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// employmentType is the schema.org form of a job type.
func employmentType(t models.JobType) string {
	return strings.Replace(string(t), "-", " ", 1)
}
