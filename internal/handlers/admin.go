package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"EventRegistration/internal/export"
	"EventRegistration/internal/log"
	mw "EventRegistration/internal/middleware"
	"EventRegistration/internal/models"
)

// listQuery reads the dashboard filters from the query string. Bad page/limit values
// fall back to the defaults.
func listQuery(r *http.Request) models.ListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.ListQuery{
		Search:   q.Get("search"),
		SearchBy: q.Get("searchBy"),
		Circle:   q.Get("circle"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Page:     page,
		Limit:    limit,
	}
}

// ListForms handles GET /api/admin/forms.
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	res, err := h.Admin.ListRegistrations(r.Context(), listQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   res.Count,
		"total":   res.Total,
		"page":    res.Page,
		"pages":   res.Pages,
		"data":    nonNil(res.Data),
	})
}

// Stats handles GET /api/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if stats.ByCircle == nil {
		stats.ByCircle = []models.CircleCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

// GetForm handles GET /api/admin/forms/{id}.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	reg, err := h.Admin.GetRegistration(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": reg})
}

// DeleteForm handles DELETE /api/admin/forms/{id}.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.Admin.DeleteRegistration(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Info(log.CatAdmin, "registration deleted", "id", id, "by", actor(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration deleted successfully",
		"data":    deleted,
	})
}

// ExportForms handles GET /api/admin/forms/export?format=csv|xlsx over the same
// filters and page as ListForms.
func (h *Handler) ExportForms(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		jsonError(w, http.StatusBadRequest, "Validation failed",
			models.FieldError{Field: "format", Msg: "Format must be csv or xlsx"})
		return
	}

	res, err := h.Admin.ListRegistrations(r.Context(), listQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	contentType := export.ContentTypeXLSX
	if format == "csv" {
		contentType = export.ContentTypeCSV
		err = export.CSV(&buf, res.Data, h.Location)
	} else {
		err = export.XLSX(&buf, res.Data, h.Location)
	}
	if err != nil {
		log.ErrorErr(log.CatAdmin, "export failed", err, "format", format)
		jsonError(w, http.StatusInternalServerError, "Error exporting registrations")
		return
	}

	log.Info(log.CatAdmin, "registrations exported", "format", format, "rows", len(res.Data), "by", actor(r))
	name := export.Filename(format, h.Now().In(h.Location))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// PrintForms handles GET /api/admin/forms/print: the table view of one filtered page.
func (h *Handler) PrintForms(w http.ResponseWriter, r *http.Request) {
	res, err := h.Admin.ListRegistrations(r.Context(), listQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.TableHTML(&buf, res.Data, h.Now().In(h.Location)); err != nil {
		log.ErrorErr(log.CatAdmin, "print table failed", err)
		jsonError(w, http.StatusInternalServerError, "Error rendering print view")
		return
	}
	writeHTML(w, &buf)
}

// PrintForm handles GET /api/admin/forms/{id}/print.
func (h *Handler) PrintForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	reg, err := h.Admin.GetRegistration(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.DetailHTML(&buf, *reg, h.Now().In(h.Location)); err != nil {
		log.ErrorErr(log.CatAdmin, "print detail failed", err, "id", id)
		jsonError(w, http.StatusInternalServerError, "Error rendering print view")
		return
	}
	writeHTML(w, &buf)
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", export.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// actor is the username of the admin making the request.
func actor(r *http.Request) string {
	if p, ok := mw.AdminFromContext(r.Context()); ok {
		return p.Username
	}
	return "unknown"
}

func nonNil(regs []models.Registration) []models.Registration {
	if regs == nil {
		return []models.Registration{}
	}
	return regs
}
