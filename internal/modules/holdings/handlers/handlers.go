// Package handlers provides HTTP handlers for the holdings table.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/folioview/internal/modules/holdings"
	"github.com/aristath/folioview/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Defaults supplies view defaults that are configurable at runtime
type Defaults interface {
	DefaultPageSize() int
}

// Handler provides HTTP handlers for holdings endpoints
type Handler struct {
	service  *holdings.Service
	defaults Defaults
	log      zerolog.Logger
}

// NewHandler creates a new holdings handler. defaults may be nil.
func NewHandler(service *holdings.Service, defaults Defaults, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		log:      log.With().Str("handler", "holdings").Logger(),
	}
}

// NoteRequest is the body of a note update
type NoteRequest struct {
	Note string `json:"note"`
}

// HandleList handles GET /api/holdings
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	state, err := h.parseState(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.service.Project(state)
	if err != nil {
		h.writeServiceError(w, err, "Failed to project holdings")
		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// HandleGetSummary handles GET /api/holdings/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build holdings summary")
		h.writeError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleGetFacets handles GET /api/holdings/facets/{column}
func (h *Handler) HandleGetFacets(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")

	options, err := h.service.FacetOptions(column)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get facet options")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"column":  column,
		"options": options,
	})
}

// HandleGetDetails handles GET /api/holdings/{symbol}
func (h *Handler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Details(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to get holding")
		return
	}

	h.writeJSON(w, http.StatusOK, details)
}

// HandleSaveNote handles PUT /api/holdings/{symbol}/note
func (h *Handler) HandleSaveNote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.SaveNote(r.Context(), symbol, req.Note); err != nil {
		h.writeServiceError(w, err, "Failed to save note")
		return
	}

	details, err := h.service.Details(symbol)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get holding")
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) parseState(r *http.Request) (table.State, error) {
	query := r.URL.Query()
	state, err := table.StateFromQuery(query)
	if err != nil {
		return table.State{}, err
	}
	if query.Get("size") == "" && h.defaults != nil {
		state.PageSize = h.defaults.DefaultPageSize()
	}
	return state, nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, holdings.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrNotSortable),
		errors.Is(err, table.ErrInvalidState):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.writeError(w, http.StatusInternalServerError, message)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
