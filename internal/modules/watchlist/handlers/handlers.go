// Package handlers provides HTTP handlers for the watchlist table.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/modules/watchlist"
	"github.com/aristath/folioview/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Defaults supplies view defaults that are configurable at runtime
type Defaults interface {
	DefaultPageSize() int
	DefaultPriceBasis() domain.PriceBasis
	ReorderMode() table.ReorderMode
}

// Handler provides HTTP handlers for watchlist endpoints
type Handler struct {
	service  *watchlist.Service
	defaults Defaults
	log      zerolog.Logger
}

// NewHandler creates a new watchlist handler. defaults may be nil.
func NewHandler(service *watchlist.Service, defaults Defaults, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		log:      log.With().Str("handler", "watchlist").Logger(),
	}
}

// ListResponse is one table page together with the preset and basis it was built for
type ListResponse struct {
	*table.Snapshot
	Preset watchlist.Preset  `json:"preset"`
	Basis  domain.PriceBasis `json:"basis"`
}

// NoteRequest is the body of a note update
type NoteRequest struct {
	Note string `json:"note"`
}

// HandleList handles GET /api/watchlist
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	state, err := h.parseState(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	preset, basis := h.presetAndBasis(r)

	snap, err := h.service.Project(preset, basis, state)
	if err != nil {
		h.writeServiceError(w, err, "Failed to project watchlist")
		return
	}

	h.writeJSON(w, http.StatusOK, ListResponse{Snapshot: snap, Preset: preset, Basis: basis})
}

// HandleGetPresets handles GET /api/watchlist/presets
func (h *Handler) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": watchlist.AllPresets,
	})
}

// HandleGetSummary handles GET /api/watchlist/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	preset, basis := h.presetAndBasis(r)

	summary, err := h.service.Summary(preset, basis)
	if err != nil {
		h.writeServiceError(w, err, "Failed to build watchlist summary")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleGetFacets handles GET /api/watchlist/facets/{column}
func (h *Handler) HandleGetFacets(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	preset, _ := h.presetAndBasis(r)

	options, err := h.service.FacetOptions(preset, column)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get facet options")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"column":  column,
		"options": options,
	})
}

// HandleGetDetails handles GET /api/watchlist/{symbol}
func (h *Handler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Details(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to get watch item")
		return
	}

	h.writeJSON(w, http.StatusOK, details)
}

// HandleSaveNote handles PUT /api/watchlist/{symbol}/note.
// The note goes through a drill-down so a failed save leaves nothing half-applied.
func (h *Handler) HandleSaveNote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	drilldown, err := h.service.OpenDrilldown(r.Context(), symbol)
	if err != nil {
		h.writeServiceError(w, err, "Failed to open watch item")
		return
	}
	drilldown.SetNote(req.Note)
	if err := drilldown.Save(); err != nil {
		h.writeServiceError(w, err, "Failed to save note")
		return
	}

	details, err := h.service.Details(symbol)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get watch item")
		return
	}
	h.writeJSON(w, http.StatusOK, details)
}

// HandleReorder handles POST /api/watchlist/reorder.
// The body names the rows; the query string carries the view state the drag happened in.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req watchlist.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Source == "" || req.Target == "" {
		h.writeError(w, http.StatusBadRequest, "source and target are required")
		return
	}

	state, err := table.StateFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ValidateState(state); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.State = state

	if req.Mode == "" && h.defaults != nil {
		req.Mode = h.defaults.ReorderMode()
	}
	if req.Basis == "" && h.defaults != nil {
		req.Basis = h.defaults.DefaultPriceBasis()
	}

	result, err := h.service.Reorder(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to reorder watchlist")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
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

// presetAndBasis reads the raw preset and basis parameters. Validation is
// left to the service so bad values surface as 400s from one place.
func (h *Handler) presetAndBasis(r *http.Request) (watchlist.Preset, domain.PriceBasis) {
	query := r.URL.Query()

	preset := watchlist.Preset(query.Get("preset"))
	if preset == "" {
		preset = watchlist.PresetAll
	}

	basis := domain.PriceBasis(query.Get("basis"))
	if basis == "" {
		basis = domain.PriceBasisPrevClose
		if h.defaults != nil {
			basis = h.defaults.DefaultPriceBasis()
		}
	}
	return preset, basis
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, watchlist.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, table.ErrReorderWhileSorted):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, watchlist.ErrUnknownPreset),
		errors.Is(err, domain.ErrInvalidPriceBasis),
		errors.Is(err, table.ErrUnknownColumn),
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
