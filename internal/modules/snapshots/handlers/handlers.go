// Package handlers provides HTTP handlers for snapshot queries.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/modules/snapshots"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewHandler creates a new snapshots handler
func NewHandler(service *snapshots.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleListByScenario handles GET /api/scenarios/{id}/snapshots
//
// Accepts an optional limit query parameter; snapshots come back newest
// first.
func (h *Handler) HandleListByScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	snaps, err := h.service.ListByScenario(id, limit)
	if err != nil {
		h.log.Error().Err(err).Str("scenario_id", id).Msg("Failed to list snapshots")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if snaps == nil {
		snaps = []snapshots.Snapshot{}
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenario_id": id,
			"snapshots":   snaps,
			"count":       len(snaps),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleCapture handles POST /api/snapshots/capture
//
// Triggers an immediate capture cycle outside the schedule.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	captured, failed, err := h.service.CaptureAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to capture snapshots")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"captured": captured,
			"failed":   failed,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
