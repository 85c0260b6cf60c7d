// Package handlers provides HTTP handlers for report operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/reports"
)

// Handler handles report HTTP requests
type Handler struct {
	service *reports.Service
	log     zerolog.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *reports.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "reports").Logger(),
	}
}

// HandleGenerate handles POST /api/reports/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req reports.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stored, err := h.service.Generate(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": stored,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusCreated, response)
}

// HandleList handles GET /api/reports
//
// Accepts optional limit and scenario_id query parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []reports.StoredReport
		err  error
	)

	if scenarioID := r.URL.Query().Get("scenario_id"); scenarioID != "" {
		list, err = h.service.ListByScenario(scenarioID)
	} else {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
				return
			}
		}
		list, err = h.service.List(limit)
	}

	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list reports")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if list == nil {
		list = []reports.StoredReport{}
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"reports": list,
			"count":   len(list),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /api/reports/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stored, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("report_id", id).Msg("Failed to get report")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if stored == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"data": stored,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetText handles GET /api/reports/{id}/text
//
// Returns the fixed-width table rendering as plain text.
func (h *Handler) HandleGetText(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	table, err := h.service.RenderText(id)
	if err != nil {
		h.log.Error().Err(err).Str("report_id", id).Msg("Failed to render report")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if table == "" {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(table)); err != nil {
		h.log.Error().Err(err).Msg("Failed to write text response")
	}
}

// HandleExport handles POST /api/reports/{id}/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	jsonPath, textPath, err := h.service.ExportFiles(id)
	if err != nil {
		h.log.Error().Err(err).Str("report_id", id).Msg("Failed to export report")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"json_path": jsonPath,
			"text_path": textPath,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleDelete handles DELETE /api/reports/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Str("report_id", id).Msg("Failed to delete report")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps model errors onto HTTP statuses
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var domErr *domain.DomainError
	if errors.As(err, &cfgErr) || errors.As(err, &domErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Error().Err(err).Msg("Unexpected report error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
