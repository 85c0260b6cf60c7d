// Package handlers provides HTTP handlers for digital fault-tolerant
// estimation operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/digital"
)

// Handler handles digital estimation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new digital handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "digital").Logger(),
	}
}

// CodeDistanceRequest represents a request to size a surface code
type CodeDistanceRequest struct {
	PhysicalErrorRate      float64 `json:"physical_error_rate"`
	TargetLogicalErrorRate float64 `json:"target_logical_error_rate"`
}

// HandleEstimate handles POST /api/digital/estimate
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var cfg digital.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	est, err := digital.New(cfg)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": est.Estimate(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleCodeDistance handles POST /api/digital/code-distance
func (h *Handler) HandleCodeDistance(w http.ResponseWriter, r *http.Request) {
	var req CodeDistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TargetLogicalErrorRate == 0 {
		req.TargetLogicalErrorRate = digital.DefaultTargetLogicalErrorRate
	}

	distance, err := digital.CodeDistanceFor(req.PhysicalErrorRate, req.TargetLogicalErrorRate)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"physical_error_rate":       req.PhysicalErrorRate,
			"target_logical_error_rate": req.TargetLogicalErrorRate,
			"code_distance":             distance,
			"qubits_per_logical":        2 * distance * distance,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetDefaults handles GET /api/digital/defaults
func (h *Handler) HandleGetDefaults(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"error_threshold":                     digital.ErrorThreshold,
			"magic_state_error_threshold":         digital.MagicStateErrorThreshold,
			"default_target_logical_error_rate":   digital.DefaultTargetLogicalErrorRate,
			"default_t_gate_count":                digital.DefaultTGateCount,
			"default_magic_state_overhead_factor": digital.DefaultMagicStateOverheadFactor,
			"default_compilation_overhead_factor": digital.DefaultCompilationOverheadFactor,
			"default_physical_gate_time_us":       digital.DefaultPhysicalGateTime,
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
