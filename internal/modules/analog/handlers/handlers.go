// Package handlers provides HTTP handlers for analog estimation operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
)

// Handler handles analog estimation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new analog handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "analog").Logger(),
	}
}

// FidelityRequest represents a request to evaluate fidelity at a runtime
type FidelityRequest struct {
	Config  analog.Config `json:"config"`
	Runtime float64       `json:"runtime_us"`
}

// HandleEstimate handles POST /api/analog/estimate
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var cfg analog.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sim, err := analog.New(cfg)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": sim.Estimate(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleFidelity handles POST /api/analog/fidelity
func (h *Handler) HandleFidelity(w http.ResponseWriter, r *http.Request) {
	var req FidelityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sim, err := analog.New(req.Config)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"runtime_us":        req.Runtime,
			"system_t1_us":      sim.SystemT1(),
			"decoherence_error": sim.DecoherenceErrorAt(req.Runtime),
			"total_error":       sim.TotalErrorAt(req.Runtime),
			"fidelity":          sim.FidelityAt(req.Runtime),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetDefaults handles GET /api/analog/defaults
func (h *Handler) HandleGetDefaults(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"default_t1_us":                  analog.DefaultT1,
			"default_measurement_error_rate": analog.DefaultMeasurementErrorRate,
			"default_target_fidelity":        analog.DefaultTargetFidelity,
			"default_max_runtime_multiplier": analog.DefaultMaxRuntimeMultiplier,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeDomainError maps model errors onto HTTP statuses. Configuration
// and domain errors are the caller's fault; anything else is ours.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var domErr *domain.DomainError
	if errors.As(err, &cfgErr) || errors.As(err, &domErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Error().Err(err).Msg("Unexpected estimation error")
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
