// Package events provides event management functionality.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	// Table mutations
	WatchlistReordered EventType = "WATCHLIST_REORDERED"
	NoteSaved          EventType = "NOTE_SAVED"
	DataSeeded         EventType = "DATA_SEEDED"

	// Configuration and views
	SettingsChanged EventType = "SETTINGS_CHANGED"
	ViewSaved       EventType = "VIEW_SAVED"

	// System
	JobCompleted  EventType = "JOB_COMPLETED"
	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type streamed to clients
var AllEventTypes = []EventType{
	WatchlistReordered,
	NoteSaved,
	DataSeeded,
	SettingsChanged,
	ViewSaved,
	JobCompleted,
	ErrorOccurred,
}

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}
