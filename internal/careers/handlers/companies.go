package handlers

import (
	"errors"
	"net/http"
	"strings"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/jobs"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/careers/render"
	"github.com/gartstein/careers/internal/careers/seed"
	"go.uber.org/zap"
)

// login binds a session to an existing company.
func (a *API) login(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Slug == nil || normalizeSlug(*req.Slug) == "" {
		writeError(w, http.StatusBadRequest, "Company slug is required")
		return
	}

	company, err := a.service.GetCompany(r.Context(), normalizeSlug(*req.Slug))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Company not found")
			return
		}
		a.writeServiceError(w, err)
		return
	}

	if err := a.sessions.Create(w, company.Slug); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Company: sessionCompany{Slug: company.Slug, Name: companyToResponse(company).Name},
	})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if slug, ok := a.sessions.Get(r); ok {
		a.editors.Forget(slug)
	}
	a.sessions.Destroy(w, r)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) checkAuth(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	slug, ok := a.sessions.Get(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, authCheckResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, authCheckResponse{Authenticated: true, Slug: slug})
}

func (a *API) listCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	list, err := a.service.ListCompanies(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companiesEnvelope{Companies: companiesToResponse(list)})
}

func (a *API) createCompany(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req createCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeServiceError(w, err)
		return
	}
	company, err := req.toModel()
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	created, err := a.service.CreateCompany(r.Context(), company)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, companyEnvelope{Company: companyToResponse(created)})
}

func (a *API) getCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	company, err := a.service.GetCompany(r.Context(), pathParams["slug"])
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companyEnvelope{Company: companyToResponse(company)})
}

// updateCompany replaces the top-level fields present in the body and
// hands the stored result to any open editor.
func (a *API) updateCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	update, err := decodeUpdate(pathParams["slug"], r.Body)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	updated, err := a.service.UpdateCompany(r.Context(), update)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.editors.Refresh(updated)
	writeJSON(w, http.StatusOK, companyEnvelope{Company: companyToResponse(updated)})
}

func (a *API) deleteCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	slug := pathParams["slug"]
	if err := a.service.DeleteCompany(r.Context(), slug); err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.editors.Forget(slug)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type careersResponse struct {
	Page   render.Page  `json:"page"`
	Jobs   []models.Job `json:"jobs"`
	Facets jobs.Facets  `json:"facets"`
	Total  int          `json:"total"`
}

// careersJSON returns the public page projection with the job list
// filtered by the query string.
func (a *API) careersJSON(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	company, err := a.service.GetCompany(r.Context(), pathParams["slug"])
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	page := render.Project(company)
	results := jobs.Filter(page.Jobs, queryFrom(r))
	writeJSON(w, http.StatusOK, careersResponse{
		Page:   page,
		Jobs:   results,
		Facets: page.Facets,
		Total:  len(results),
	})
}

// seed upserts the posted companies, or the built-in samples.
func (a *API) seed(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if !a.opts.AllowSeed {
		writeError(w, http.StatusForbidden, "Seeding is only available in development")
		return
	}

	var req seedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeServiceError(w, err)
		return
	}
	companies := req.Companies
	if req.UseSample {
		companies = seed.SampleCompanies()
	}
	if len(companies) == 0 {
		writeError(w, http.StatusBadRequest, "Provide companies or set useSample to true")
		return
	}

	result := a.service.SeedCompanies(r.Context(), companies)
	a.logger.Info("Seed finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	writeJSON(w, http.StatusOK, result)
}

// queryFrom reads the job search parameters; a missing facet means "all".
func queryFrom(r *http.Request) jobs.Query {
	values := r.URL.Query()
	q := jobs.NewQuery(strings.TrimSpace(values.Get("q")))
	if v := values.Get("location"); v != "" {
		q.Location = v
	}
	if v := values.Get("job_type"); v != "" {
		q.JobType = v
	}
	if v := values.Get("department"); v != "" {
		q.Department = v
	}
	return q
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
