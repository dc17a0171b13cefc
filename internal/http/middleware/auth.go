package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/auth"
	"chargeadmin/internal/models"
)

type principalKey struct{}

// Authenticator resolves opaque session tokens into request principals. The
// token is read from the session cookie or, failing that, a Bearer header.
type Authenticator struct {
	sessions   *auth.Service
	cookieName string
}

// NewAuthenticator builds the middleware.
func NewAuthenticator(sessions *auth.Service, cookieName string) *Authenticator {
	return &Authenticator{sessions: sessions, cookieName: cookieName}
}

// Token extracts the session token from a request.
func (a *Authenticator) Token(r *http.Request) string {
	if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth rejects requests without a live session and stores the
// principal in the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.Token(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		session, err := a.sessions.CurrentUser(r.Context(), token)
		if err != nil {
			writeError(w, apperr.HTTPStatus(err), apperr.PublicMessage(err))
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin principals. Must run inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		if principal.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext retrieves the authenticated session.
func PrincipalFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(principalKey{}).(*auth.Session)
	return session, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
