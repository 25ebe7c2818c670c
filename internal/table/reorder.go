package table

import (
	"fmt"
	"slices"
)

// ReorderMode decides how a manual move interacts with an active sort or filter
type ReorderMode string

const (
	// ReorderCanonical moves rows in the canonical order regardless of sort
	ReorderCanonical ReorderMode = "canonical"
	// ReorderLockedWhenSorted rejects moves while a sort is active
	ReorderLockedWhenSorted ReorderMode = "locked_when_sorted"
	// ReorderWithinView moves the row inside the filtered and sorted
	// subsequence and writes that subsequence back into the canonical slots
	// it occupies. Rows outside the view keep their positions.
	ReorderWithinView ReorderMode = "within_view"
)

// ParseReorderMode converts a string to a ReorderMode. Empty input is canonical.
func ParseReorderMode(s string) (ReorderMode, error) {
	switch ReorderMode(s) {
	case "", ReorderCanonical:
		return ReorderCanonical, nil
	case ReorderLockedWhenSorted:
		return ReorderLockedWhenSorted, nil
	case ReorderWithinView:
		return ReorderWithinView, nil
	default:
		return "", fmt.Errorf("%w: reorder mode %q", ErrInvalidState, s)
	}
}

// DragSession tracks the source row of an in-progress drag
type DragSession struct {
	source string
}

// Start records the dragged row
func (d *DragSession) Start(rowKey string) {
	d.source = rowKey
}

// Source returns the dragged row, if any
func (d *DragSession) Source() (string, bool) {
	return d.source, d.source != ""
}

// Drop ends the drag on a target row. It returns the source key and true
// when a move should happen; dropping without a source or onto the source
// itself is a no-op. The session is cleared either way.
func (d *DragSession) Drop(targetKey string) (string, bool) {
	source := d.source
	d.source = ""
	if source == "" || targetKey == "" || source == targetKey {
		return "", false
	}
	return source, true
}

// Cancel abandons the drag
func (d *DragSession) Cancel() {
	d.source = ""
}

// Move removes the source row and reinserts it at the target's canonical
// index, locating both by stable key. It returns a new slice and true on
// success, or the rows unchanged and false when either key is missing or
// both are equal.
func Move[T any](rows []T, key func(T) string, source, target string) ([]T, bool) {
	if source == target {
		return rows, false
	}
	from := slices.IndexFunc(rows, func(r T) bool { return key(r) == source })
	to := slices.IndexFunc(rows, func(r T) bool { return key(r) == target })
	if from < 0 || to < 0 {
		return rows, false
	}

	next := slices.Clone(rows)
	moved := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, moved)
	return next, true
}

// Reorder applies a move to the canonical rows under the given mode. The
// state is only consulted by the locked and within-view modes.
func Reorder[T any](set *ColumnSet[T], rows []T, state State, mode ReorderMode, source, target string) ([]T, bool, error) {
	switch mode {
	case "", ReorderCanonical:
		next, moved := Move(rows, set.Key, source, target)
		return next, moved, nil

	case ReorderLockedWhenSorted:
		if state.IsSorted() {
			return rows, false, ErrReorderWhileSorted
		}
		next, moved := Move(rows, set.Key, source, target)
		return next, moved, nil

	case ReorderWithinView:
		view, err := View(set, rows, state)
		if err != nil {
			return rows, false, err
		}
		next, moved := MoveWithinView(rows, view, set.Key, source, target)
		return next, moved, nil

	default:
		return rows, false, fmt.Errorf("%w: reorder mode %q", ErrInvalidState, mode)
	}
}

// MoveWithinView moves source to target inside view, a filtered and sorted
// subset of rows, then writes the reordered view back into the canonical
// positions its rows occupied.
func MoveWithinView[T any](rows, view []T, key func(T) string, source, target string) ([]T, bool) {
	reordered, moved := Move(view, key, source, target)
	if !moved {
		return rows, false
	}

	inView := make(map[string]struct{}, len(view))
	for _, r := range view {
		inView[key(r)] = struct{}{}
	}

	next := slices.Clone(rows)
	j := 0
	for i, r := range next {
		if _, ok := inView[key(r)]; ok {
			next[i] = reordered[j]
			j++
		}
	}
	return next, true
}
