// Package table implements a generic tabular view engine: global and facet
// filtering, stable multi-key sorting, pagination and manual reordering over
// in-memory rows, rendered into a JSON-friendly Snapshot.
package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrUnknownColumn is returned when a column id is not part of the set
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotSortable is returned when sorting by a column that disallows it
	ErrNotSortable = errors.New("column is not sortable")
	// ErrInvalidState is returned for malformed display state
	ErrInvalidState = errors.New("invalid table state")
	// ErrDuplicateColumn is returned when two columns share an id
	ErrDuplicateColumn = errors.New("duplicate column id")
	// ErrInvalidColumn is returned for incomplete column definitions
	ErrInvalidColumn = errors.New("invalid column definition")
	// ErrReorderWhileSorted is returned by ReorderLockedWhenSorted when a sort is active
	ErrReorderWhileSorted = errors.New("reordering is disabled while a sort is active")
)

const (
	// DefaultPageSize is used when a state carries no page size
	DefaultPageSize = 10
	// MaxPageSize is the largest page a state may request
	MaxPageSize = 100
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection converts a string to a Direction. Empty input is ascending.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: sort direction %q", ErrInvalidState, s)
	}
}

// SortKey is one entry of a lexicographic sort
type SortKey struct {
	Column    string    `json:"column" msgpack:"column"`
	Direction Direction `json:"direction" msgpack:"direction"`
}

// State is the display state of one table instance. It is treated as an
// immutable value: engine functions never modify it.
type State struct {
	Sorting      []SortKey           `json:"sorting,omitempty" msgpack:"sorting"`
	Visibility   map[string]bool     `json:"visibility,omitempty" msgpack:"visibility"`
	Selection    map[string]bool     `json:"selection,omitempty" msgpack:"selection"`
	GlobalFilter string              `json:"global_filter,omitempty" msgpack:"global_filter"`
	Facets       map[string][]string `json:"facets,omitempty" msgpack:"facets"`
	PageIndex    int                 `json:"page_index" msgpack:"page_index"`
	PageSize     int                 `json:"page_size" msgpack:"page_size"`
}

// DefaultState returns an unsorted, unfiltered state on the first page
func DefaultState() State {
	return State{PageSize: DefaultPageSize}
}

// IsSorted reports whether any sort key is active
func (s State) IsSorted() bool {
	return len(s.Sorting) > 0
}

// IsVisible reports whether a column is visible. Missing entries are visible.
func (s State) IsVisible(columnID string) bool {
	visible, ok := s.Visibility[columnID]
	return !ok || visible
}

// Validate checks the state for values no table can honour
func (s State) Validate() error {
	if s.PageIndex < 0 {
		return fmt.Errorf("%w: negative page index %d", ErrInvalidState, s.PageIndex)
	}
	if s.PageSize < 0 {
		return fmt.Errorf("%w: negative page size %d", ErrInvalidState, s.PageSize)
	}
	if s.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d exceeds %d", ErrInvalidState, s.PageSize, MaxPageSize)
	}
	for _, k := range s.Sorting {
		if k.Column == "" {
			return fmt.Errorf("%w: sort key without column", ErrInvalidState)
		}
		if _, err := ParseDirection(string(k.Direction)); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := s
	out.Sorting = slices.Clone(s.Sorting)
	out.Visibility = maps.Clone(s.Visibility)
	out.Selection = maps.Clone(s.Selection)
	if s.Facets != nil {
		out.Facets = make(map[string][]string, len(s.Facets))
		for k, v := range s.Facets {
			out.Facets[k] = slices.Clone(v)
		}
	}
	return out
}
