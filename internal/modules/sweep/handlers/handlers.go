// Package handlers provides HTTP handlers for parameter sweeps.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/sweep"
)

// Handler handles sweep HTTP requests
type Handler struct {
	service *sweep.Service
	log     zerolog.Logger
}

// NewHandler creates a new sweep handler
func NewHandler(service *sweep.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "sweep").Logger(),
	}
}

// HandleErrorRate handles POST /api/sweeps/error-rate
func (h *Handler) HandleErrorRate(w http.ResponseWriter, r *http.Request) {
	var req sweep.ErrorRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.ErrorRate(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeResult(w, result)
}

// HandleWidth handles POST /api/sweeps/width
func (h *Handler) HandleWidth(w http.ResponseWriter, r *http.Request) {
	var req sweep.WidthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Width(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeResult(w, result)
}

// HandleGrid handles POST /api/sweeps/grid
func (h *Handler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	var req sweep.GridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Grid(req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeResult(w, result)
}

// writeResult writes the standard success envelope
func (h *Handler) writeResult(w http.ResponseWriter, result interface{}) {
	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeDomainError maps model errors onto HTTP statuses
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var domErr *domain.DomainError
	if errors.As(err, &cfgErr) || errors.As(err, &domErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Error().Err(err).Msg("Unexpected sweep error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
