package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all report routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Post("/generate", h.HandleGenerate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Get("/{id}/text", h.HandleGetText)
		r.Post("/{id}/export", h.HandleExport)
		r.Delete("/{id}", h.HandleDelete)
	})
}
