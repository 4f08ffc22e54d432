package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/careers/internal/careers/auth"
	"github.com/gartstein/careers/internal/careers/controller"
	"github.com/gartstein/careers/internal/careers/editor"
	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/careers/render"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockCompanyController is a simple mock implementation of CompanyController.
// Unset functions fail loudly except GetCompany, which reports ErrNotFound.
type mockCompanyController struct {
	createCompanyFunc func(ctx context.Context, company *models.Company) (*models.Company, error)
	getCompanyFunc    func(ctx context.Context, slug string) (*models.Company, error)
	listCompaniesFunc func(ctx context.Context) ([]*models.Company, error)
	updateCompanyFunc func(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	deleteCompanyFunc func(ctx context.Context, slug string) error
	seedCompaniesFunc func(ctx context.Context, companies []*models.Company) *controller.SeedResult
}

var errUnexpectedCall = errors.New("unexpected call")

func (m *mockCompanyController) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if m.createCompanyFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.createCompanyFunc(ctx, company)
}

func (m *mockCompanyController) GetCompany(ctx context.Context, slug string) (*models.Company, error) {
	if m.getCompanyFunc == nil {
		return nil, e.ErrNotFound
	}
	return m.getCompanyFunc(ctx, slug)
}

func (m *mockCompanyController) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	if m.listCompaniesFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.listCompaniesFunc(ctx)
}

func (m *mockCompanyController) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if m.updateCompanyFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.updateCompanyFunc(ctx, update)
}

func (m *mockCompanyController) DeleteCompany(ctx context.Context, slug string) error {
	if m.deleteCompanyFunc == nil {
		return errUnexpectedCall
	}
	return m.deleteCompanyFunc(ctx, slug)
}

func (m *mockCompanyController) SeedCompanies(ctx context.Context, companies []*models.Company) *controller.SeedResult {
	return m.seedCompaniesFunc(ctx, companies)
}

// getBySlug serves GetCompany from a fixed set of companies.
func getBySlug(companies ...*models.Company) func(context.Context, string) (*models.Company, error) {
	return func(_ context.Context, slug string) (*models.Company, error) {
		for _, c := range companies {
			if c.Slug == slug {
				return c, nil
			}
		}
		return nil, e.ErrNotFound
	}
}

func acmeCompany() *models.Company {
	return &models.Company{
		ID:   uuid.New(),
		Slug: "acme",
		Name: "Acme",
		Theme: models.Theme{
			Primary: "#111111",
		},
		Sections: []models.Section{
			{ID: "s1", Type: models.SectionAbout, Title: "About Acme", Content: models.TextContent("We build rockets"), Order: 0, IsVisible: true},
			{ID: "s2", Type: models.SectionTeam, Title: "Our Team", Content: models.TextContent("Small"), Order: 1, IsVisible: true},
		},
		Jobs: []models.Job{
			{ID: "j1", Title: "Backend Engineer", Location: "Remote", JobType: models.FullTime, Department: "Engineering"},
			{ID: "j2", Title: "Product Designer", Location: "Berlin", JobType: models.Contract, Department: "Design"},
		},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

type testEnv struct {
	ctrl    *mockCompanyController
	store   *auth.Store
	editors *editor.Registry
	mux     *runtime.ServeMux
}

func newTestEnv(t *testing.T, ctrl *mockCompanyController, opts Options) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := auth.NewStore("handler-test-secret", auth.DefaultTTL, false, logger)
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	editors := editor.NewRegistry(ctrl, logger)
	mux, err := NewServeMux(NewAPI(ctrl, store, editors, renderer, logger, opts))
	require.NoError(t, err)
	return &testEnv{ctrl: ctrl, store: store, editors: editors, mux: mux}
}

// session returns a cookie bound to slug.
func (env *testEnv) session(t *testing.T, slug string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, env.store.Create(rec, slug))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (env *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
