package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analog estimation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analog", func(r chi.Router) {
		r.Post("/estimate", h.HandleEstimate)
		r.Post("/fidelity", h.HandleFidelity)
		r.Get("/defaults", h.HandleGetDefaults)
	})
}
