// Package handlers provides HTTP handlers for saved table views.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/folioview/internal/modules/views"
	"github.com/aristath/folioview/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for view endpoints
type Handler struct {
	service *views.Service
	log     zerolog.Logger
}

// NewHandler creates a new views handler
func NewHandler(service *views.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "views").Logger(),
	}
}

// SavedResponse is returned after a view is stored
type SavedResponse struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ViewResponse is a restored view with its state in both structured and query form
type ViewResponse struct {
	ID        string      `json:"id"`
	Table     string      `json:"table"`
	State     table.State `json:"state"`
	Query     string      `json:"query"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// HandleSave handles POST /api/views/{table}
// The state to save is read from the query string, e.g. ?sort=pnl:desc&q=bank
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	tableName := chi.URLParam(r, "table")

	state, err := table.StateFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.Save(tableName, state)
	if err != nil {
		if isClientError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("table", tableName).Msg("Failed to save view")
		h.writeError(w, http.StatusInternalServerError, "Failed to save view")
		return
	}

	h.writeJSON(w, http.StatusCreated, SavedResponse{
		ID:        view.ID,
		Table:     view.Table,
		ExpiresAt: view.ExpiresAt,
	})
}

// HandleGet handles GET /api/views/{table}/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, ok := h.load(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, ViewResponse{
		ID:        view.ID,
		Table:     view.Table,
		State:     view.State,
		Query:     view.State.Query().Encode(),
		ExpiresAt: view.ExpiresAt,
	})
}

// HandleDelete handles DELETE /api/views/{table}/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	view, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(view.ID); err != nil {
		h.log.Error().Err(err).Str("id", view.ID).Msg("Failed to delete view")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete view")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// load resolves the view named by the URL, writing the error response on failure.
// A view saved for another table is reported as not found.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*views.SavedView, bool) {
	tableName := chi.URLParam(r, "table")
	id := chi.URLParam(r, "id")

	if err := views.ValidateTable(tableName); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	view, err := h.service.Load(id)
	if errors.Is(err, views.ErrNotFound) || (err == nil && view.Table != tableName) {
		h.writeError(w, http.StatusNotFound, "View not found")
		return nil, false
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to load view")
		h.writeError(w, http.StatusInternalServerError, "Failed to load view")
		return nil, false
	}
	return view, true
}

func isClientError(err error) bool {
	return errors.Is(err, views.ErrInvalidTable) ||
		errors.Is(err, table.ErrUnknownColumn) ||
		errors.Is(err, table.ErrNotSortable) ||
		errors.Is(err, table.ErrInvalidState)
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
