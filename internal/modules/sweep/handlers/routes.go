package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all sweep routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sweeps", func(r chi.Router) {
		r.Post("/error-rate", h.HandleErrorRate)
		r.Post("/width", h.HandleWidth)
		r.Post("/grid", h.HandleGrid)
	})
}
