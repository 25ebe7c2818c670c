package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.HandleGetAll)        // All settings with defaults applied
		r.Put("/{key}", h.HandleUpdate)   // Update one setting
		r.Delete("/{key}", h.HandleReset) // Restore default
	})
}
