package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/archive"
)

// ArchiveHandlers exposes the cold archive store. When archiving is not
// configured the routes answer 503 instead of disappearing, so clients
// can tell "disabled" from "wrong URL".
type ArchiveHandlers struct {
	service *archive.Service
	log     zerolog.Logger
}

// NewArchiveHandlers creates a new archive handlers instance. A nil
// service marks archiving as disabled.
func NewArchiveHandlers(service *archive.Service, log zerolog.Logger) *ArchiveHandlers {
	return &ArchiveHandlers{
		service: service,
		log:     log.With().Str("component", "archive_handlers").Logger(),
	}
}

// RegisterRoutes registers all archive routes
func (h *ArchiveHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/archives", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/run", h.HandleRun)
	})
}

// HandleList lists stored archives, newest first
// GET /api/archives
func (h *ArchiveHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, "archiving not configured", http.StatusServiceUnavailable)
		return
	}

	archives, err := h.service.ListArchives(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list archives")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"archives": archives,
		"count":    len(archives),
	})
}

// HandleRun creates and uploads an archive immediately
// POST /api/archives/run
func (h *ArchiveHandlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, "archiving not configured", http.StatusServiceUnavailable)
		return
	}

	key, err := h.service.CreateAndUploadArchive(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Manual archive upload failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status": "uploaded",
		"key":    key,
	})
}

// writeJSON writes a JSON response
func (h *ArchiveHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
