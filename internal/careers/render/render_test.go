package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/careers/internal/careers/editor"
	"github.com/gartstein/careers/internal/careers/jobs"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCompany() *models.Company {
	return &models.Company{
		Slug:      "acme-corp",
		Name:      "Acme Corporation",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Theme: models.Theme{
			Secondary: "#222222",
			Logo:      "https://cdn.example.com/logo.png",
			Video:     "https://www.youtube.com/watch?v=abc123",
		},
		Sections: []models.Section{
			{ID: "3", Type: models.SectionTeam, Title: "Team", Content: models.TextContent("People"), Order: 2, IsVisible: true},
			{ID: "1", Type: models.SectionAbout, Title: "About", Content: models.TextContent("We build."), Order: 0, IsVisible: true},
			{ID: "2", Type: models.SectionBenefits, Title: "Hidden", Order: 1, IsVisible: false},
		},
		Jobs: []models.Job{
			{
				ID: "1", Title: "Engineer", Description: "Build things", Location: "Remote",
				JobType: models.FullTime, Department: "Engineering",
				Requirements: []string{"Go", "SQL"}, Benefits: []string{"Remote work"},
			},
			{ID: "2", Title: "Designer", Location: "Berlin", JobType: models.PartTime, IsActive: utils.Ptr(false)},
			{ID: "3", Title: "Intern", Location: "Berlin", JobType: models.Internship},
		},
	}
}

func TestProject(t *testing.T) {
	page := Project(sampleCompany())

	assert.Equal(t, "Acme Corporation", page.Hero.Name)
	assert.Equal(t, Tagline, page.Hero.Tagline)
	assert.Equal(t, "https://cdn.example.com/logo.png", page.Hero.Logo)
	assert.Equal(t, models.DefaultPrimaryColor, page.Colors.Primary)
	assert.Equal(t, "#222222", page.Colors.Secondary)
	assert.Equal(t, models.DefaultAccentColor, page.Colors.Accent)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", page.VideoURL)

	require.Len(t, page.Sections, 2)
	assert.Equal(t, "1", page.Sections[0].ID)
	assert.Equal(t, "3", page.Sections[1].ID)
	assert.Equal(t, "We build.", page.Sections[0].Content)

	require.Len(t, page.Jobs, 2)
	assert.Equal(t, "Engineer", page.Jobs[0].Title)
	assert.Equal(t, "Intern", page.Jobs[1].Title)
	assert.Equal(t, []string{"Berlin", "Remote"}, page.Facets.Locations)
	assert.Equal(t, []string{"Engineering"}, page.Facets.Departments)
}

func TestProjectDefaults(t *testing.T) {
	page := Project(&models.Company{Slug: "bare"})

	assert.Equal(t, "bare", page.Hero.Name, "name falls back to the slug")
	assert.Equal(t, models.DefaultPrimaryColor, page.Colors.Primary)
	assert.Equal(t, models.DefaultSecondaryColor, page.Colors.Secondary)
	assert.Empty(t, page.VideoURL)
	assert.NotNil(t, page.Sections)
	assert.NotNil(t, page.Jobs)
}

func TestProjectIsDeterministic(t *testing.T) {
	c := sampleCompany()
	assert.Equal(t, Project(c), Project(c))
	assert.Equal(t, "3", c.Sections[0].ID, "projection must not reorder the input")
}

func TestProjectRecordContent(t *testing.T) {
	content, err := models.RecordContent(map[string]any{"lead": "Ada"})
	require.NoError(t, err)
	page := Project(&models.Company{Slug: "x", Sections: []models.Section{
		{ID: "1", Type: models.SectionCustom, Content: content, IsVisible: true},
	}})

	assert.Equal(t, `{"lead":"Ada"}`, page.Sections[0].Content)
}

func TestJobTypeLabel(t *testing.T) {
	assert.Equal(t, "Full Time", JobTypeLabel(models.FullTime))
	assert.Equal(t, "Internship", JobTypeLabel(models.Internship))
	assert.Equal(t, "full time", employmentType(models.FullTime))
}

func TestMetaFor(t *testing.T) {
	meta := MetaFor(sampleCompany())

	assert.Equal(t, "Careers at Acme Corporation | Join Our Team", meta.Title)
	assert.Equal(t, "Explore 2 open positions at Acme Corporation. Join our team and help shape the future.", meta.Description)
	assert.Equal(t, "Careers at Acme Corporation", meta.OGTitle)
	assert.Equal(t, "Explore 2 open positions at Acme Corporation.", meta.OGDescription)
	assert.Equal(t, "website", meta.OGType)
	assert.Equal(t, "summary_large_image", meta.TwitterCard)
}

func TestStructuredData(t *testing.T) {
	docs, err := StructuredData(sampleCompany(), "https://jobs.example.com/")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	var org map[string]any
	require.NoError(t, json.Unmarshal([]byte(docs[0]), &org))
	assert.Equal(t, "Organization", org["@type"])
	assert.Equal(t, "https://jobs.example.com", org["url"])
	postings := org["jobPostings"].([]any)
	require.Len(t, postings, 2)

	first := postings[0].(map[string]any)
	assert.Equal(t, "Engineer", first["title"])
	assert.Equal(t, "full time", first["employmentType"])
	assert.Equal(t, "2024-01-02T03:04:05Z", first["datePosted"])
	assert.Equal(t, "Go, SQL", first["qualifications"])
	assert.Equal(t, "Remote work", first["benefits"])
	assert.Equal(t, map[string]any{"@type": "Organization", "name": "Engineering"}, first["department"])
	identifier := first["identifier"].(map[string]any)
	assert.Equal(t, "Acme Corporation", identifier["name"])
	assert.Equal(t, "1", identifier["value"])
	address := first["jobLocation"].(map[string]any)["address"].(map[string]any)
	assert.Equal(t, "Remote", address["addressLocality"])
	assert.Equal(t, "US", address["addressCountry"])

	second := postings[1].(map[string]any)
	assert.NotContains(t, second, "department")
	assert.NotContains(t, second, "qualifications")

	var crumbs map[string]any
	require.NoError(t, json.Unmarshal([]byte(docs[1]), &crumbs))
	items := crumbs["itemListElement"].([]any)
	assert.Equal(t, "https://jobs.example.com/acme-corp/careers", items[1].(map[string]any)["item"])

	var collection map[string]any
	require.NoError(t, json.Unmarshal([]byte(docs[2]), &collection))
	assert.Equal(t, "Explore 2 open positions at Acme Corporation", collection["description"])
	assert.Equal(t, float64(2), collection["mainEntity"].(map[string]any)["numberOfItems"])
}

func TestStructuredDataEscapesScript(t *testing.T) {
	c := &models.Company{Slug: "x", Name: "</script><script>alert(1)</script>"}
	docs, err := StructuredData(c, "")
	require.NoError(t, err)

	for _, d := range docs {
		assert.NotContains(t, string(d), "</script>")
	}
}

func TestRendererCareers(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	q := jobs.NewQuery("")
	q.Location = "Berlin"
	view, err := NewCareersView(sampleCompany(), q, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Total)

	var buf bytes.Buffer
	require.NoError(t, r.Careers(&buf, view))
	html := buf.String()

	assert.Contains(t, html, "<title>Careers at Acme Corporation | Join Our Team</title>")
	assert.Contains(t, html, `<script type="application/ld+json">{"@context":"https://schema.org"`)
	assert.Contains(t, html, "https://www.youtube.com/embed/abc123")
	assert.Contains(t, html, "Open Positions")
	assert.Contains(t, html, "Intern")
	assert.NotContains(t, html, "Hidden")
	assert.Contains(t, html, `<option value="Berlin" selected>`)
	assert.Contains(t, html, "1 job found")
	assert.Less(t, strings.Index(html, `id="section-1"`), strings.Index(html, `id="section-3"`), "sections are rendered by order")
}

func TestRendererCareersEscapesContent(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	c := &models.Company{Slug: "x", Sections: []models.Section{
		{ID: "1", Type: models.SectionAbout, Title: "<b>bold</b>", IsVisible: true},
	}}

	view, err := NewCareersView(c, jobs.NewQuery(""), "", false)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Careers(&buf, view))

	assert.Contains(t, buf.String(), "&lt;b&gt;bold&lt;/b&gt;")
}

func TestRendererPreviewNoJobs(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	view, err := NewCareersView(&models.Company{Slug: "bare"}, jobs.NewQuery(""), "", true)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Careers(&buf, view))

	assert.Contains(t, buf.String(), "Preview of your careers page")
	assert.NotContains(t, buf.String(), "Open Positions")
}

func TestRendererLoginAndNotFound(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var login bytes.Buffer
	require.NoError(t, r.Login(&login, LoginView{Slug: "acme", Redirect: "/acme/edit", Error: "Company not found"}))
	assert.Contains(t, login.String(), `value="acme"`)
	assert.Contains(t, login.String(), `value="/acme/edit"`)
	assert.Contains(t, login.String(), "Company not found")

	var missing bytes.Buffer
	require.NoError(t, r.NotFound(&missing))
	assert.Contains(t, missing.String(), "<title>Careers Page Not Found</title>")
}

func TestRendererEdit(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	c := sampleCompany()
	ws := editor.View{
		Slug:  c.Slug,
		Theme: editor.ThemeView{Draft: c.Theme},
		Sections: editor.SectionsView{
			Status: editor.Status{State: editor.Dirty, LastError: "save failed"},
			Draft:  c.Sections,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Edit(&buf, NewEditView(c, ws)))
	html := buf.String()

	assert.Contains(t, html, "Edit Acme Corporation")
	assert.Contains(t, html, `data-section="3"`)
	assert.Contains(t, html, "save failed")
	assert.Contains(t, html, `data-state="dirty"`)
	assert.Contains(t, html, `value="https://cdn.example.com/logo.png"`)
}
