package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/gartstein/careers/internal/careers/editor"
	"github.com/gartstein/careers/internal/careers/jobs"
	"github.com/gartstein/careers/internal/careers/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Head is the data of the shared document head.
type Head struct {
	Title       string
	Description string
}

// CareersView is the data of the public and preview careers pages.
type CareersView struct {
	Head    Head
	Meta    Meta
	JSONLD  []template.JS
	Page    Page
	Query   jobs.Query
	Results []models.Job
	Total   int
	Preview bool
}

// LoginView is the data of the login form.
type LoginView struct {
	Head     Head
	Slug     string
	Redirect string
	Error    string
}

// ThemeField is one input of the theme form.
type ThemeField struct {
	Name  models.ThemeField
	Label string
	Value string
}

// EditView is the data of the editor page.
type EditView struct {
	Head         Head
	Slug         string
	Name         string
	Workspace    editor.View
	ThemeFields  []ThemeField
	SectionTypes []models.SectionType
}

type notFoundView struct {
	Head Head
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"jobTypeLabel": func(v any) string { return JobTypeLabel(models.JobType(fmt.Sprint(v))) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewCareersView assembles the careers page of c filtered by q.
func NewCareersView(c *models.Company, q jobs.Query, baseURL string, preview bool) (CareersView, error) {
	ld, err := StructuredData(c, baseURL)
	if err != nil {
		return CareersView{}, err
	}
	page := Project(c)
	meta := MetaFor(c)
	results := jobs.Filter(page.Jobs, q)
	return CareersView{
		Head:    Head{Title: meta.Title, Description: meta.Description},
		Meta:    meta,
		JSONLD:  ld,
		Page:    page,
		Query:   q,
		Results: results,
		Total:   len(results),
		Preview: preview,
	}, nil
}

// NewEditView assembles the editor page of c from its workspace.
func NewEditView(c *models.Company, ws editor.View) EditView {
	theme := ws.Theme.Draft
	return EditView{
		Head:      Head{Title: "Edit " + c.DisplayName()},
		Slug:      c.Slug,
		Name:      c.DisplayName(),
		Workspace: ws,
		ThemeFields: []ThemeField{
			{Name: models.ThemePrimary, Label: "Primary color", Value: theme.Primary},
			{Name: models.ThemeSecondary, Label: "Secondary color", Value: theme.Secondary},
			{Name: models.ThemeAccent, Label: "Accent color", Value: theme.Accent},
			{Name: models.ThemeLogo, Label: "Logo URL", Value: theme.Logo},
			{Name: models.ThemeBanner, Label: "Banner URL", Value: theme.Banner},
			{Name: models.ThemeVideo, Label: "Video URL", Value: theme.Video},
		},
		SectionTypes: models.SectionTypes,
	}
}

func (r *Renderer) Careers(w io.Writer, v CareersView) error {
	return r.tmpl.ExecuteTemplate(w, "careers", v)
}

func (r *Renderer) Login(w io.Writer, v LoginView) error {
	if v.Head.Title == "" {
		v.Head.Title = "Sign in | Careers Builder"
	}
	return r.tmpl.ExecuteTemplate(w, "login", v)
}

func (r *Renderer) Edit(w io.Writer, v EditView) error {
	return r.tmpl.ExecuteTemplate(w, "edit", v)
}

func (r *Renderer) NotFound(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "notfound", notFoundView{Head: Head{Title: NotFoundTitle}})
}
