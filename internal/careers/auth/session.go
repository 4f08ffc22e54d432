// Package auth implements the signed-cookie session store that binds a
// browser to one company slug, and the HTTP guards built on it.
package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// CookieName is the name of the session cookie.
const CookieName = "company_session"

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Store issues and verifies session cookies. Tokens are stateless JWTs;
// the only server-side state is the set of tokens revoked by Destroy,
// which is held until they would have expired anyway.
type Store struct {
	secret string
	ttl    time.Duration
	secure bool
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewStore returns a Store signing with secret. secure sets the Secure
// cookie attribute and should be on in production.
func NewStore(secret string, ttl time.Duration, secure bool, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		secret:  secret,
		ttl:     ttl,
		secure:  secure,
		logger:  logger.Named("session_store"),
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Create issues a session bound to slug and sets it on w.
func (s *Store) Create(w http.ResponseWriter, slug string) error {
	token, _, err := GenerateToken(slug, s.secret, s.ttl, s.now())
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(token, int(s.ttl.Seconds())))
	s.logger.Debug("Session created", zap.String("slug", slug))
	return nil
}

// Get returns the slug bound to the request's session. ok is false when the
// cookie is missing, expired, badly signed or revoked.
func (s *Store) Get(r *http.Request) (slug string, ok bool) {
	claims, ok := s.claims(r)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// Destroy clears the cookie on w and revokes the token carried by r so a
// copy of it stops working immediately.
func (s *Store) Destroy(w http.ResponseWriter, r *http.Request) {
	if claims, ok := s.claims(r); ok {
		s.mu.Lock()
		s.revoked[claims.ID] = claims.ExpiresAt.Time
		s.mu.Unlock()
		s.logger.Debug("Session destroyed", zap.String("slug", claims.Subject))
	}
	http.SetCookie(w, s.cookie("", -1))
}

func (s *Store) claims(r *http.Request) (*jwt.RegisteredClaims, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	now := s.now()
	claims, err := validateToken(c.Value, s.secret, now)
	if err != nil {
		s.logger.Debug("Rejected session cookie", zap.Error(err))
		return nil, false
	}
	if s.isRevoked(claims.ID, now) {
		return nil, false
	}
	return claims, true
}

func (s *Store) isRevoked(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
	_, revoked := s.revoked[id]
	return revoked
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
