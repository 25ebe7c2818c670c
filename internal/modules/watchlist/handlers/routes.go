package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers watchlist routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", h.HandleList)                     // Table page for preset, basis and query state
		r.Get("/presets", h.HandleGetPresets)        // Available presets
		r.Get("/summary", h.HandleGetSummary)        // Advancers, decliners and average change
		r.Get("/facets/{column}", h.HandleGetFacets) // Distinct facet values within a preset
		r.Post("/reorder", h.HandleReorder)          // Drop source row onto target row
		r.Get("/{symbol}", h.HandleGetDetails)       // Drill-down with OHLC and depth
		r.Put("/{symbol}/note", h.HandleSaveNote)    // Save drill-down note
	})
}
