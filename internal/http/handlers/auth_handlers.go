package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/auth"
	"chargeadmin/internal/http/middleware"
)

// NewLoginHandler handles POST /api/auth/login. The opaque token is returned
// in the body and set as a cookie so both browser and API clients work.
func NewLoginHandler(authService *auth.Service, cookieName string, ttl time.Duration, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Token      string `json:"token"`
		EmployeeID string `json:"employee_id"`
		Role       string `json:"role"`
		FirstLogin bool   `json:"first_login"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		token, employee, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, response{
			Token:      token,
			EmployeeID: employee.ID,
			Role:       employee.Role,
			FirstLogin: employee.FirstLogin,
		})
	}
}

// NewLogoutHandler handles POST /api/auth/logout.
func NewLogoutHandler(authService *auth.Service, authn *middleware.Authenticator, cookieName string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authService.Logout(r.Context(), authn.Token(r)); err != nil {
			writeAppError(w, logger, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}

// NewChangePasswordHandler handles POST /api/auth/password for the caller's
// own account.
func NewChangePasswordHandler(authService *auth.Service, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := authService.ChangePassword(r.Context(), principal.EmployeeID, req.CurrentPassword, req.NewPassword); err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
	}
}
