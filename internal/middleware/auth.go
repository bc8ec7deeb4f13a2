// Package middleware guards admin routes and throttles login attempts.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
)

// TokenValidator checks a session token and returns its principal.
type TokenValidator interface {
	ValidateToken(token string) (*models.AdminPrincipal, error)
}

// TokenSource reads a token stored outside the Authorization header (the session cookie).
type TokenSource interface {
	Token(r *http.Request) (string, bool)
}

type ctxKey struct{}

// WithAdmin returns ctx carrying p.
func WithAdmin(ctx context.Context, p *models.AdminPrincipal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// AdminFromContext returns the principal set by AdminOnly.
func AdminFromContext(ctx context.Context) (*models.AdminPrincipal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*models.AdminPrincipal)
	return p, ok && p != nil
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AdminOnly rejects requests without a valid admin token with 401.
// The bearer header wins over the cookie; cookies may be nil.
//
//	r.Group(func(g chi.Router) {
//	    g.Use(middleware.AdminOnly(auth, cookies))
//	    ...
//	})
func AdminOnly(v TokenValidator, cookies TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" && cookies != nil {
				token, _ = cookies.Token(r)
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			p, err := v.ValidateToken(token)
			if err != nil {
				log.Debug(log.CatAuth, "admin request rejected", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), p)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
