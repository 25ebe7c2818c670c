// Package handlers provides HTTP handlers for application settings.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/folioview/internal/modules/settings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for settings endpoints
type Handler struct {
	service *settings.Service
	log     zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *settings.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "settings").Logger(),
	}
}

// HandleGetAll handles GET /api/settings
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get all settings")
		h.writeError(w, http.StatusInternalServerError, "Failed to get settings")
		return
	}

	h.writeJSON(w, http.StatusOK, all)
}

// HandleUpdate handles PUT /api/settings/{key}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var update settings.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Value == nil {
		h.writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	value, err := h.service.Set(key, update.Value)
	switch {
	case errors.Is(err, settings.ErrUnknownSetting):
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, settings.ErrInvalidValue):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error().
			Err(err).
			Str("key", key).
			Interface("value", update.Value).
			Msg("Failed to update setting")
		h.writeError(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{key: value})
}

// HandleReset handles DELETE /api/settings/{key}
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.service.Reset(key); err != nil {
		if errors.Is(err, settings.ErrUnknownSetting) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("Failed to reset setting")
		h.writeError(w, http.StatusInternalServerError, "Failed to reset setting")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
