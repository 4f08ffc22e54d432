package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/gartstein/careers/internal/careers/auth"
	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/render"
	"go.uber.org/zap"
)

// protectedPage matches the pages a login link usually comes back to.
var protectedPage = regexp.MustCompile(`^/([^/?]+)/(edit|preview)(\?.*)?$`)

// renderHTML buffers a page so that a template failure never leaves a
// half-written response.
func (a *API) renderHTML(w http.ResponseWriter, status int, execute func(io.Writer) error) {
	var buf bytes.Buffer
	if err := execute(&buf); err != nil {
		a.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// pageError renders the not-found page for unknown companies and a bare
// 500 for anything else.
func (a *API) pageError(w http.ResponseWriter, err error) {
	if errors.Is(err, e.ErrNotFound) {
		a.renderHTML(w, http.StatusNotFound, a.pages.NotFound)
		return
	}
	a.logger.Error("Failed to load page", zap.Error(err))
	http.Error(w, internalErrorMessage, http.StatusInternalServerError)
}

func (a *API) careersPage(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	a.serveCareers(w, r, pathParams["companySlug"], false)
}

func (a *API) previewPage(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	a.serveCareers(w, r, pathParams["companySlug"], true)
}

func (a *API) serveCareers(w http.ResponseWriter, r *http.Request, slug string, preview bool) {
	company, err := a.service.GetCompany(r.Context(), slug)
	if err != nil {
		a.pageError(w, err)
		return
	}
	view, err := render.NewCareersView(company, queryFrom(r), a.opts.BaseURL, preview)
	if err != nil {
		a.pageError(w, err)
		return
	}
	a.renderHTML(w, http.StatusOK, func(out io.Writer) error { return a.pages.Careers(out, view) })
}

func (a *API) editPage(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	slug := pathParams["companySlug"]
	company, err := a.service.GetCompany(r.Context(), slug)
	if err != nil {
		a.pageError(w, err)
		return
	}
	ws, err := a.editors.Open(r.Context(), slug)
	if err != nil {
		a.pageError(w, err)
		return
	}
	view := render.NewEditView(company, editorView(ws))
	a.renderHTML(w, http.StatusOK, func(out io.Writer) error { return a.pages.Edit(out, view) })
}

// loginPage shows the sign-in form, pre-filling the slug when the caller
// was sent here from one of that company's protected pages.
func (a *API) loginPage(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	redirect := r.URL.Query().Get("redirect")
	view := render.LoginView{Redirect: redirect}
	if m := protectedPage.FindStringSubmatch(redirect); m != nil {
		view.Slug = m[1]
	}
	a.renderHTML(w, http.StatusOK, func(out io.Writer) error { return a.pages.Login(out, view) })
}

// loginSubmit handles the sign-in form and forwards to the requested local
// page, or to the company's editor.
func (a *API) loginSubmit(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		a.renderLoginError(w, http.StatusBadRequest, render.LoginView{}, "Invalid form submission")
		return
	}
	view := render.LoginView{
		Slug:     normalizeSlug(r.PostFormValue("slug")),
		Redirect: r.PostFormValue("redirect"),
	}
	if view.Slug == "" {
		a.renderLoginError(w, http.StatusBadRequest, view, "Company slug is required")
		return
	}

	company, err := a.service.GetCompany(r.Context(), view.Slug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			a.renderLoginError(w, http.StatusNotFound, view, "Company not found")
			return
		}
		a.logger.Error("Login lookup failed", zap.Error(err), zap.String("slug", view.Slug))
		a.renderLoginError(w, http.StatusInternalServerError, view, "Something went wrong, please try again")
		return
	}

	if err := a.sessions.Create(w, company.Slug); err != nil {
		a.logger.Error("Failed to create session", zap.Error(err))
		a.renderLoginError(w, http.StatusInternalServerError, view, "Something went wrong, please try again")
		return
	}
	http.Redirect(w, r, auth.SafeRedirect(view.Redirect, "/"+company.Slug+"/edit"), http.StatusSeeOther)
}

func (a *API) renderLoginError(w http.ResponseWriter, status int, view render.LoginView, msg string) {
	view.Error = msg
	a.renderHTML(w, status, func(out io.Writer) error { return a.pages.Login(out, view) })
}
