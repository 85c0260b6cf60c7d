// Package handlers provides HTTP handlers for comparison operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Handler handles comparison HTTP requests
type Handler struct {
	engine *comparison.Engine
	log    zerolog.Logger
}

// NewHandler creates a new comparison handler
func NewHandler(engine *comparison.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "comparison").Logger(),
	}
}

// CompareRequest carries both model configurations
type CompareRequest struct {
	Analog  analog.Config  `json:"analog"`
	Digital digital.Config `json:"digital"`
}

// HandleCompare handles POST /api/comparison/compare
//
// Runs both models from scratch and returns the estimates alongside the
// relative metrics, so one call yields everything a report needs.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sim, err := analog.New(req.Analog)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	est, err := digital.New(req.Digital)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	analogEst := sim.Estimate()
	digitalEst := est.Estimate()

	result, err := h.engine.Compare(analogEst, digitalEst)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"analog":     analogEst,
			"digital":    digitalEst,
			"comparison": result,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeDomainError maps model errors onto HTTP statuses
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var domErr *domain.DomainError
	if errors.As(err, &cfgErr) || errors.As(err, &domErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Error().Err(err).Msg("Unexpected comparison error")
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
