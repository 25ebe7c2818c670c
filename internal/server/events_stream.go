package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/metrics"
	"github.com/aristath/folioview/internal/utils"
	"github.com/rs/zerolog"
)

const (
	streamBuffer      = 100
	heartbeatInterval = 30 * time.Second
)

// EventsStreamHandler streams bus events to clients as Server-Sent Events
type EventsStreamHandler struct {
	eventBus  *events.Bus
	metrics   *metrics.Metrics
	log       zerolog.Logger
	heartbeat time.Duration
}

// NewEventsStreamHandler creates a new SSE events handler
func NewEventsStreamHandler(eventBus *events.Bus, m *metrics.Metrics, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		metrics:   m,
		log:       log.With().Str("component", "events_stream").Logger(),
		heartbeat: heartbeatInterval,
	}
}

// ServeHTTP handles GET /api/events/stream requests.
// An optional ?types=A,B query restricts the stream to those event types.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	types, err := parseTypesFilter(r.URL.Query().Get("types"))
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan, unsubscribe := h.eventBus.Channel(streamBuffer, types...)
	defer unsubscribe()

	h.metrics.StreamClientConnected("sse", 1)
	defer h.metrics.StreamClientConnected("sse", -1)

	h.log.Info().Int("types", len(types)).Msg("Client connected to event stream")

	h.send(w, flusher, connectedMessage())

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			h.log.Debug().
				Str("event_type", string(event.Type)).
				Msg("Sending event to client")
			h.send(w, flusher, eventMessage(event))

		case <-heartbeat.C:
			h.send(w, flusher, heartbeatMessage())
		}
	}
}

func (h *EventsStreamHandler) send(w http.ResponseWriter, flusher http.Flusher, payload []byte) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// parseTypesFilter parses a comma separated list of event types. An empty
// filter selects every type.
func parseTypesFilter(raw string) ([]events.EventType, error) {
	parts := utils.Unique(utils.ParseCSV(raw))
	if len(parts) == 0 {
		return nil, nil
	}

	known := make(map[events.EventType]bool, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		known[t] = true
	}

	types := make([]events.EventType, 0, len(parts))
	for _, part := range parts {
		t := events.EventType(part)
		if !known[t] {
			return nil, fmt.Errorf("unknown event type: %s", t)
		}
		types = append(types, t)
	}
	return types, nil
}

func connectedMessage() []byte {
	return encodeMessage(map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	})
}

func heartbeatMessage() []byte {
	return encodeMessage(map[string]interface{}{
		"type":      "heartbeat",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func eventMessage(event *events.Event) []byte {
	return encodeMessage(map[string]interface{}{
		"type":      string(event.Type),
		"module":    event.Module,
		"timestamp": event.Timestamp.Format(time.RFC3339),
		"data":      event.Data,
	})
}

func encodeMessage(message map[string]interface{}) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		return []byte(`{"error":"failed to encode event"}`)
	}
	return data
}
