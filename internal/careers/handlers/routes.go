package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gartstein/careers/internal/careers/auth"
	"github.com/gartstein/careers/internal/careers/controller"
	"github.com/gartstein/careers/internal/careers/editor"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/careers/render"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface
// that the HTTP handlers will invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, slug string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, slug string) error
	SeedCompanies(ctx context.Context, companies []*models.Company) *controller.SeedResult
}

// Options tunes the HTTP surface.
type Options struct {
	// BaseURL is the absolute site address used in structured data.
	BaseURL string
	// AllowSeed enables POST /api/seed.
	AllowSeed bool
}

// API serves the JSON API and the HTML pages.
type API struct {
	service  CompanyController
	sessions *auth.Store
	editors  *editor.Registry
	pages    *render.Renderer
	logger   *zap.Logger
	opts     Options
}

// NewAPI constructs the HTTP handlers over service.
func NewAPI(
	service CompanyController,
	sessions *auth.Store,
	editors *editor.Registry,
	pages *render.Renderer,
	logger *zap.Logger,
	opts Options,
) *API {
	return &API{
		service:  service,
		sessions: sessions,
		editors:  editors,
		pages:    pages,
		logger:   logger.Named("http_handler"),
		opts:     opts,
	}
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

// routes lists every endpoint. The mux tries later entries first.
func (a *API) routes() []route {
	api := func(h runtime.HandlerFunc) runtime.HandlerFunc {
		return a.sessions.RequireCompany(auth.API, "slug", h)
	}
	page := func(h runtime.HandlerFunc) runtime.HandlerFunc {
		return a.sessions.RequireCompany(auth.Page, "companySlug", h)
	}

	return []route{
		// pages
		{http.MethodGet, auth.LoginPath, a.loginPage},
		{http.MethodPost, auth.LoginPath, a.loginSubmit},
		{http.MethodGet, "/{companySlug}/careers", a.careersPage},
		{http.MethodGet, "/{companySlug}/preview", page(a.previewPage)},
		{http.MethodGet, "/{companySlug}/edit", page(a.editPage)},

		// session
		{http.MethodPost, "/api/auth", a.login},
		{http.MethodDelete, "/api/auth", a.logout},
		{http.MethodGet, "/api/auth/check", a.checkAuth},

		// companies
		{http.MethodGet, "/api/companies", a.listCompanies},
		{http.MethodPost, "/api/companies", a.createCompany},
		{http.MethodGet, "/api/companies/{slug}", a.getCompany},
		{http.MethodPut, "/api/companies/{slug}", api(a.updateCompany)},
		{http.MethodDelete, "/api/companies/{slug}", api(a.deleteCompany)},
		{http.MethodGet, "/api/companies/{slug}/careers", a.careersJSON},

		// editor
		{http.MethodGet, "/api/companies/{slug}/editor", api(a.getEditor)},
		{http.MethodPatch, "/api/companies/{slug}/editor/theme", api(a.editTheme)},
		{http.MethodPost, "/api/companies/{slug}/editor/theme/save", api(a.saveTheme)},
		{http.MethodPost, "/api/companies/{slug}/editor/sections", api(a.addSection)},
		{http.MethodPost, "/api/companies/{slug}/editor/sections/move", api(a.moveSection)},
		{http.MethodPost, "/api/companies/{slug}/editor/sections/save", api(a.saveSections)},
		{http.MethodPatch, "/api/companies/{slug}/editor/sections/{id}", api(a.editSection)},
		{http.MethodDelete, "/api/companies/{slug}/editor/sections/{id}", api(a.removeSection)},
		{http.MethodPost, "/api/companies/{slug}/editor/sections/{id}/toggle", api(a.toggleSection)},

		{http.MethodPost, "/api/seed", a.seed},
	}
}

// Register adds every route of a to mux.
func (a *API) Register(mux *runtime.ServeMux) error {
	for _, rt := range a.routes() {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

// NewServeMux builds a router serving a. Extra options are applied before
// the routes are registered.
func NewServeMux(a *API, opts ...runtime.ServeMuxOption) (*runtime.ServeMux, error) {
	opts = append([]runtime.ServeMuxOption{
		runtime.WithMiddlewares(RecoveryMiddleware(a.logger), LoggingMiddleware(a.logger)),
		runtime.WithRoutingErrorHandler(routingError),
	}, opts...)
	mux := runtime.NewServeMux(opts...)
	if err := a.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, status int) {
	writeError(w, status, http.StatusText(status))
}
