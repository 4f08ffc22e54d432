package editor

import (
	"context"
	"sync"

	"github.com/gartstein/careers/internal/careers/events"
	"github.com/gartstein/careers/internal/careers/models"
	"go.uber.org/zap"
)

// Service loads companies for new workspaces and saves drafts.
type Service interface {
	Saver
	GetCompany(ctx context.Context, slug string) (*models.Company, error)
}

// Workspace groups the editors of one company.
type Workspace struct {
	Slug     string
	Theme    *ThemeEditor
	Sections *SectionBuilder
}

// View is the serialisable state of a workspace.
type View struct {
	Slug     string       `json:"slug"`
	Theme    ThemeView    `json:"theme"`
	Sections SectionsView `json:"sections"`
}

type ThemeView struct {
	Status
	Draft models.Theme `json:"draft"`
}

type SectionsView struct {
	Status
	Draft []models.Section `json:"draft"`
}

// View snapshots both editors.
func (w *Workspace) View() View {
	return View{
		Slug:     w.Slug,
		Theme:    ThemeView{Status: w.Theme.Status(), Draft: w.Theme.Draft()},
		Sections: SectionsView{Status: w.Sections.Status(), Draft: w.Sections.Draft()},
	}
}

// Registry keeps one workspace per company, created on first use.
type Registry struct {
	svc    Service
	logger *zap.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(svc Service, logger *zap.Logger) *Registry {
	return &Registry{
		svc:        svc,
		logger:     logger.Named("editor_registry"),
		workspaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace of slug, loading the company when none exists.
func (r *Registry) Open(ctx context.Context, slug string) (*Workspace, error) {
	if ws := r.lookup(slug); ws != nil {
		return ws, nil
	}

	company, err := r.svc.GetCompany(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have opened it while we were loading.
	if ws, ok := r.workspaces[slug]; ok {
		return ws, nil
	}
	ws := &Workspace{
		Slug:     slug,
		Theme:    NewThemeEditor(slug, company.Theme, company.UpdatedAt, r.svc),
		Sections: NewSectionBuilder(slug, company.Sections, company.UpdatedAt, r.svc),
	}
	r.workspaces[slug] = ws
	r.logger.Debug("Workspace opened", zap.String("slug", slug))
	return ws, nil
}

// Refresh pushes a stored company into its open workspace. Editors with
// unsaved changes keep their drafts, and a company that is not newer than
// what an editor holds is ignored.
func (r *Registry) Refresh(company *models.Company) {
	ws := r.lookup(company.Slug)
	if ws == nil {
		return
	}
	themeRefreshed := ws.Theme.Refresh(company.Theme, company.UpdatedAt)
	sectionsRefreshed := ws.Sections.Refresh(company.Sections, company.UpdatedAt)
	r.logger.Debug("Workspace refreshed",
		zap.String("slug", company.Slug),
		zap.Bool("theme", themeRefreshed),
		zap.Bool("sections", sectionsRefreshed),
	)
}

// Forget drops the workspace of slug, discarding unsaved drafts.
func (r *Registry) Forget(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, slug)
}

// HandleEvent applies a company event to the registry. It is registered as
// the Kafka consumer handler.
func (r *Registry) HandleEvent(_ context.Context, ev events.Event) error {
	switch ev.Type {
	case events.CompanyCreated, events.CompanyUpdated:
		if ev.Company != nil {
			r.Refresh(ev.Company)
		}
	case events.CompanyDeleted:
		r.Forget(ev.Slug)
	default:
		r.logger.Warn("Ignoring unknown event", zap.String("event_type", string(ev.Type)))
	}
	return nil
}

func (r *Registry) lookup(slug string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workspaces[slug]
}
