package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snapshot routes. The per-scenario listing
// lives under the scenarios resource; the capture trigger under its own.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios/{id}/snapshots", h.HandleListByScenario)
	r.Post("/snapshots/capture", h.HandleCapture)
}
