package table

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ApplyGlobalFilter keeps rows whose search fields contain the query,
// case-insensitively, preserving order. A blank query keeps every row.
func ApplyGlobalFilter[T any](set *ColumnSet[T], rows []T, query string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return slices.Clone(rows)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, field := range set.search(row) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// ApplyFacetFilters keeps rows accepted by every active facet (AND across
// columns, OR within a column). Facets with no accepted values are inactive.
func ApplyFacetFilters[T any](set *ColumnSet[T], rows []T, facets map[string][]string) ([]T, error) {
	ids := make([]string, 0, len(facets))
	for id, accepted := range facets {
		if len(accepted) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	cols := make([]Column[T], 0, len(ids))
	for _, id := range ids {
		col, ok := set.Column(id)
		if !ok {
			return nil, fmt.Errorf("%w: facet %q", ErrUnknownColumn, id)
		}
		cols = append(cols, col)
	}

	out := make([]T, 0, len(rows))
next:
	for _, row := range rows {
		for i, col := range cols {
			if !col.Accepts(row, facets[ids[i]]) {
				continue next
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ApplySort returns a stably sorted copy of rows, ordered lexicographically
// by the sort keys. Ties keep their prior relative order.
func ApplySort[T any](set *ColumnSet[T], rows []T, keys []SortKey) ([]T, error) {
	type resolved struct {
		col  Column[T]
		desc bool
	}

	order := make([]resolved, 0, len(keys))
	for _, k := range keys {
		col, ok := set.Column(k.Column)
		if !ok {
			return nil, fmt.Errorf("%w: sort %q", ErrUnknownColumn, k.Column)
		}
		if !col.Sortable {
			return nil, fmt.Errorf("%w: %q", ErrNotSortable, k.Column)
		}
		dir, err := ParseDirection(string(k.Direction))
		if err != nil {
			return nil, err
		}
		order = append(order, resolved{col: col, desc: dir == Desc})
	}

	out := slices.Clone(rows)
	if len(order) == 0 {
		return out, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range order {
			c := o.col.Compare(out[i], out[j])
			if o.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

// Paginate returns the rows of one page. A non-positive size returns every
// row and a page past the end returns none.
func Paginate[T any](rows []T, pageIndex, pageSize int) []T {
	if pageSize <= 0 {
		return slices.Clone(rows)
	}
	if pageIndex < 0 || len(rows) == 0 || pageIndex > (len(rows)-1)/pageSize {
		return []T{}
	}
	start := pageIndex * pageSize
	end := len(rows)
	if pageSize < end-start {
		end = start + pageSize
	}
	return slices.Clone(rows[start:end])
}

// PageCount returns ceil(n / size), and 0 when there are no rows
func PageCount(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	count := n / size
	if n%size != 0 {
		count++
	}
	return count
}

// View applies the global filter, the facet filters and the sort of the
// state, in that order. The result is the full filtered and sorted
// sequence before pagination.
func View[T any](set *ColumnSet[T], rows []T, state State) ([]T, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	filtered := ApplyGlobalFilter(set, rows, state.GlobalFilter)

	filtered, err := ApplyFacetFilters(set, filtered, state.Facets)
	if err != nil {
		return nil, err
	}

	return ApplySort(set, filtered, state.Sorting)
}
