package events

import "encoding/json"

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// WatchlistReorderedData contains data for WatchlistReordered events
type WatchlistReorderedData struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
}

// EventType returns the event type for WatchlistReorderedData
func (d *WatchlistReorderedData) EventType() EventType {
	return WatchlistReordered
}

// NoteSavedData contains data for NoteSaved events
type NoteSavedData struct {
	Table  string `json:"table"`
	Symbol string `json:"symbol"`
}

// EventType returns the event type for NoteSavedData
func (d *NoteSavedData) EventType() EventType {
	return NoteSaved
}

// DataSeededData contains data for DataSeeded events
type DataSeededData struct {
	Holdings  int `json:"holdings"`
	Watchlist int `json:"watchlist"`
}

// EventType returns the event type for DataSeededData
func (d *DataSeededData) EventType() EventType {
	return DataSeeded
}

// SettingsChangedData contains data for SettingsChanged events
type SettingsChangedData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EventType returns the event type for SettingsChangedData
func (d *SettingsChangedData) EventType() EventType {
	return SettingsChanged
}

// ViewSavedData contains data for ViewSaved events
type ViewSavedData struct {
	ID    string `json:"id"`
	Table string `json:"table"`
}

// EventType returns the event type for ViewSavedData
func (d *ViewSavedData) EventType() EventType {
	return ViewSaved
}

// JobCompletedData contains data for JobCompleted events
type JobCompletedData struct {
	Job      string `json:"job"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// EventType returns the event type for JobCompletedData
func (d *JobCompletedData) EventType() EventType {
	return JobCompleted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// convertEventDataToMap converts typed EventData to the map carried by Event
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}

	return result
}
