package handlers

import (
	"context"
	"net/http"
	"time"

	"EventRegistration/internal/log"
)

// Health handles GET /api/health: 200 when storage answers, 500 otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ts := h.Now().UTC().Format(time.RFC3339Nano)
	if err := h.DB.Ping(ctx); err != nil {
		log.ErrorErr(log.CatDB, "health check failed", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"message":   "Server is running but database connection failed",
			"database":  "Disconnected",
			"timestamp": ts,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Server is running",
		"database":  "Connected",
		"timestamp": ts,
	})
}
