package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/metrics"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

const wsWriteTimeout = 10 * time.Second

// EventsWSHandler streams bus events to clients over a WebSocket
type EventsWSHandler struct {
	eventBus  *events.Bus
	metrics   *metrics.Metrics
	devMode   bool
	log       zerolog.Logger
	heartbeat time.Duration
}

// NewEventsWSHandler creates a new WebSocket events handler. In dev mode
// cross-origin upgrades are accepted.
func NewEventsWSHandler(eventBus *events.Bus, m *metrics.Metrics, devMode bool, log zerolog.Logger) *EventsWSHandler {
	return &EventsWSHandler{
		eventBus:  eventBus,
		metrics:   m,
		devMode:   devMode,
		log:       log.With().Str("component", "events_ws").Logger(),
		heartbeat: heartbeatInterval,
	}
}

// ServeHTTP handles GET /api/events/ws upgrades. The ?types filter matches
// the SSE stream.
func (h *EventsWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	types, err := parseTypesFilter(r.URL.Query().Get("types"))
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.devMode,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	// Clients only receive; CloseRead handles control frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	eventChan, unsubscribe := h.eventBus.Channel(streamBuffer, types...)
	defer unsubscribe()

	h.metrics.StreamClientConnected("ws", 1)
	defer h.metrics.StreamClientConnected("ws", -1)

	h.log.Info().Int("types", len(types)).Msg("Client connected to event socket")

	if err := h.write(ctx, conn, connectedMessage()); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event socket")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			if err := h.write(ctx, conn, eventMessage(event)); err != nil {
				return
			}

		case <-heartbeat.C:
			pingCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("WebSocket ping failed")
				return
			}
		}
	}
}

func (h *EventsWSHandler) write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
		if !errors.Is(err, context.Canceled) {
			h.log.Debug().Err(err).Msg("WebSocket write failed")
		}
		return err
	}
	return nil
}
