package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers saved view routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/views/{table}", func(r chi.Router) {
		r.Post("/", h.HandleSave)         // Save the state in the query string
		r.Get("/{id}", h.HandleGet)       // Restore a view
		r.Delete("/{id}", h.HandleDelete) // Forget a view
	})
}
