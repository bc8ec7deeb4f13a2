package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"EventRegistration/internal/models"
)

// SubmitRegistration handles POST /api/registration/submit.
func (h *Handler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Registrations.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Registration submitted successfully",
		"data":    res,
	})
}

// VerifyPayment handles GET /api/registration/verify/{paymentId}.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Registrations.CheckPaymentExists(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "exists": exists})
}
