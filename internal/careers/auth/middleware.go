package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
)

type contextKey string

const companyContextKey contextKey = "company"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// Mode selects how a guard rejects a request.
type Mode int

const (
	// API rejects with 401 and a JSON body.
	API Mode = iota
	// Page redirects to the login page carrying the requested path.
	Page
)

// RequireCompany only lets a request through when its session is bound to
// exactly the slug in path parameter param. The slug is then available
// from CompanyFromContext.
func (s *Store) RequireCompany(mode Mode, param string, next runtime.HandlerFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		slug, ok := s.Get(r)
		if !ok || slug != pathParams[param] {
			reject(mode, w, r)
			return
		}
		next(w, r.WithContext(WithCompany(r.Context(), slug)), pathParams)
	}
}

func reject(mode Mode, w http.ResponseWriter, r *http.Request) {
	if mode == Page {
		http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// LoginURL returns the login page address that forwards to redirect after
// a successful login.
func LoginURL(redirect string) string {
	return LoginPath + "?" + url.Values{"redirect": {redirect}}.Encode()
}

// SafeRedirect returns target when it is a path on this site and fallback
// otherwise, so a login link cannot forward to another host.
func SafeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// WithCompany stores the authenticated slug on ctx.
func WithCompany(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, companyContextKey, slug)
}

// CompanyFromContext returns the slug stored by WithCompany.
func CompanyFromContext(ctx context.Context) (string, bool) {
	slug, ok := ctx.Value(companyContextKey).(string)
	return slug, ok
}
