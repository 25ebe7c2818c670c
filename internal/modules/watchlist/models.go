// Package watchlist serves the watchlist table, its presets, manual
// reordering and the instrument drill-down.
package watchlist

import (
	"errors"
	"fmt"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/table"
)

// TableName identifies the watchlist table in saved views, events and metrics
const TableName = "watchlist"

// EmptyMessage is shown when no watch item matches
const EmptyMessage = "No watchlist items."

var (
	// ErrNotFound is returned when no watch item has the requested symbol
	ErrNotFound = errors.New("watch item not found")
	// ErrUnknownPreset is returned for preset names outside all, banking, it and core
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrDrilldownClosed is returned when saving a drill-down that was already closed
	ErrDrilldownClosed = errors.New("drill-down is closed")
)

// Preset is a pre-built subset of the watchlist
type Preset string

const (
	PresetAll     Preset = "all"
	PresetBanking Preset = "banking"
	PresetIT      Preset = "it"
	PresetCore    Preset = "core"
)

// AllPresets lists the presets in display order
var AllPresets = []Preset{PresetAll, PresetBanking, PresetIT, PresetCore}

// ParsePreset converts a string to a Preset. Empty input is all.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case "", PresetAll:
		return PresetAll, nil
	case PresetBanking, PresetIT, PresetCore:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
}

// Matches reports whether an item belongs to the preset
func (p Preset) Matches(item domain.WatchItem) bool {
	switch p {
	case PresetBanking:
		return item.Sector == "Banking"
	case PresetIT:
		return item.Sector == "IT"
	case PresetCore:
		return item.Group == "Core"
	default:
		return true
	}
}

// Filter returns the items of the preset in their original order
func (p Preset) Filter(items []domain.WatchItem) []domain.WatchItem {
	out := make([]domain.WatchItem, 0, len(items))
	for _, item := range items {
		if p.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Summary aggregates the items of one preset under one price basis
type Summary struct {
	Preset        Preset            `json:"preset"`
	Basis         domain.PriceBasis `json:"basis"`
	Count         int               `json:"count"`
	Advancers     int               `json:"advancers"`
	Decliners     int               `json:"decliners"`
	Unchanged     int               `json:"unchanged"`
	AverageChange float64           `json:"average_change"`
	Alerts        int               `json:"alerts"`
	Sectors       []SectorCount     `json:"sectors"`
	Display       struct {
		AverageChange string `json:"average_change"`
	} `json:"display"`
}

// SectorCount is the number of items in one sector
type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// ReorderRequest asks for source to be dropped onto target
type ReorderRequest struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	Mode   table.ReorderMode `json:"mode"`
	// State and Preset describe the view the drag happened in
	State  table.State       `json:"-"`
	Preset Preset            `json:"preset"`
	Basis  domain.PriceBasis `json:"basis"`
}

// ReorderResult reports the outcome of a reorder
type ReorderResult struct {
	Moved bool              `json:"moved"`
	Mode  table.ReorderMode `json:"mode"`
	Order []string          `json:"order"`
}
