package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers holdings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holdings", func(r chi.Router) {
		r.Get("/", h.HandleList)                     // Table page for the query state
		r.Get("/summary", h.HandleGetSummary)        // Totals and sector allocation
		r.Get("/facets/{column}", h.HandleGetFacets) // Distinct facet values
		r.Get("/{symbol}", h.HandleGetDetails)       // Drill-down
		r.Put("/{symbol}/note", h.HandleSaveNote)    // Save drill-down note
	})
}
