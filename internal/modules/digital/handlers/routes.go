package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all digital estimation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/digital", func(r chi.Router) {
		r.Post("/estimate", h.HandleEstimate)
		r.Post("/code-distance", h.HandleCodeDistance)
		r.Get("/defaults", h.HandleGetDefaults)
	})
}
