package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ErrorErr(log.CatHTTP, "encode response", err)
	}
}

// jsonError writes the failure envelope {success:false, message, errors?}.
func jsonError(w http.ResponseWriter, code int, msg string, fields ...models.FieldError) {
	body := map[string]any{"success": false, "message": msg}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	writeJSON(w, code, body)
}

// writeServiceError maps the service error taxonomy onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var serr *models.ServiceError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, "Validation failed", verr.Fields...)
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &serr):
		jsonError(w, http.StatusInternalServerError, serr.Message)
	default:
		log.ErrorErr(log.CatHTTP, "unhandled error", err)
		jsonError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a single JSON object from the body. Oversized bodies get 413,
// anything unparseable gets 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// idParam parses the {id} route segment. Non-numeric ids are reported as not found.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusNotFound, models.ErrNotFound.Error())
		return 0, false
	}
	return id, true
}
