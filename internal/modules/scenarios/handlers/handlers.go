// Package handlers provides HTTP handlers for scenario catalog operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/scenarios"
)

// Handler handles scenario HTTP requests
type Handler struct {
	service *scenarios.Service
	log     zerolog.Logger
}

// NewHandler creates a new scenarios handler
func NewHandler(service *scenarios.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "scenarios").Logger(),
	}
}

// HandleCreate handles POST /api/scenarios
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req scenarios.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scenario, err := h.service.Create(req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope(scenario))
}

// HandleList handles GET /api/scenarios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list scenarios")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if list == nil {
		list = []scenarios.Scenario{}
	}

	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"scenarios": list,
		"count":     len(list),
	}))
}

// HandleGet handles GET /api/scenarios/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	scenario, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("scenario_id", id).Msg("Failed to get scenario")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if scenario == nil {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(scenario))
}

// HandleUpdate handles PUT /api/scenarios/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req scenarios.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scenario, err := h.service.Update(id, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if scenario == nil {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(scenario))
}

// HandleDelete handles DELETE /api/scenarios/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Str("scenario_id", id).Msg("Failed to delete scenario")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRun handles POST /api/scenarios/{id}/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.Run(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if result == nil {
		http.Error(w, "Scenario not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(result))
}

// writeServiceError maps model errors onto HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var domErr *domain.DomainError
	if errors.As(err, &cfgErr) || errors.As(err, &domErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Error().Err(err).Msg("Unexpected scenario error")
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

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}
