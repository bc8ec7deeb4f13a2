package handlers

import (
	"net/http"

	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
)

// Login handles POST /api/admin/login. The token goes back in the body and, when a
// session store is configured, in the admin_session cookie too.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if h.Sessions != nil {
		if err := h.Sessions.SetToken(w, r, res.Token); err != nil {
			// the bearer token in the body still works
			log.ErrorErr(log.CatAuth, "session save error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Login successful",
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"admin":     map[string]string{"username": res.Admin.Username},
	})
}

// Logout handles POST /api/admin/logout. Tokens are stateless, so this only drops the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.Sessions != nil {
		if err := h.Sessions.Clear(w, r); err != nil {
			log.ErrorErr(log.CatAuth, "session clear error", err)
			jsonError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}
