package table

import (
	"fmt"
	"slices"
	"strings"
)

// Kind distinguishes columns bound to a row field from computed ones
type Kind int

const (
	// Direct columns read a field of the row
	Direct Kind = iota
	// Derived columns compute their value from the whole row on every access
	Derived
)

func (k Kind) String() string {
	if k == Derived {
		return "derived"
	}
	return "direct"
}

// Column describes how one column of a table reads, sorts, filters and renders a row.
type Column[T any] struct {
	ID       string
	Title    string
	Kind     Kind
	Sortable bool
	Hideable bool

	field   func(T) Value
	compute func(T) Value
	compare func(a, b T) int
	format  func(T) string
	facet   func(T) string
	filter  func(row T, accepted []string) bool
}

// Option customises a column
type Option[T any] func(*Column[T])

// DirectColumn builds a column bound to a row field.
func DirectColumn[T any](id, title string, field func(T) Value, opts ...Option[T]) Column[T] {
	c := Column[T]{ID: id, Title: title, Kind: Direct, Sortable: true, field: field}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DerivedColumn builds a computed column. Sorting recomputes the value for
// each comparison rather than reading a cached field.
func DerivedColumn[T any](id, title string, compute func(T) Value, format func(T) string, opts ...Option[T]) Column[T] {
	c := Column[T]{ID: id, Title: title, Kind: Derived, Sortable: true, compute: compute, format: format}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Hideable allows the column to be hidden through the visibility map
func Hideable[T any]() Option[T] {
	return func(c *Column[T]) { c.Hideable = true }
}

// NotSortable disables sorting on the column
func NotSortable[T any]() Option[T] {
	return func(c *Column[T]) { c.Sortable = false }
}

// WithFilter sets a multi-value facet predicate
func WithFilter[T any](pred func(row T, accepted []string) bool) Option[T] {
	return func(c *Column[T]) { c.filter = pred }
}

// WithFormat sets the cell renderer
func WithFormat[T any](fn func(T) string) Option[T] {
	return func(c *Column[T]) { c.format = fn }
}

// WithFacet sets the discrete value used for facet matching and facet options
func WithFacet[T any](fn func(T) string) Option[T] {
	return func(c *Column[T]) { c.facet = fn }
}

// WithComparator replaces the value-based comparator
func WithComparator[T any](cmp func(a, b T) int) Option[T] {
	return func(c *Column[T]) { c.compare = cmp }
}

// Value returns the column's value for a row
func (c Column[T]) Value(row T) Value {
	switch c.Kind {
	case Derived:
		return c.compute(row)
	default:
		return c.field(row)
	}
}

// Compare orders two rows by this column, ascending
func (c Column[T]) Compare(a, b T) int {
	if c.compare != nil {
		return c.compare(a, b)
	}
	return Compare(c.Value(a), c.Value(b))
}

// Render returns the display text of the cell
func (c Column[T]) Render(row T) string {
	if c.format != nil {
		return c.format(row)
	}
	return c.Value(row).String()
}

// FacetValue returns the discrete value of the row for facet filtering
func (c Column[T]) FacetValue(row T) string {
	if c.facet != nil {
		return c.facet(row)
	}
	return c.Value(row).String()
}

// Accepts reports whether the row passes a facet with the given accepted values.
// An empty accepted set accepts every row.
func (c Column[T]) Accepts(row T, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	if c.filter != nil {
		return c.filter(row, accepted)
	}
	return slices.Contains(accepted, c.FacetValue(row))
}

func (c Column[T]) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: column id is empty", ErrInvalidColumn)
	}
	switch c.Kind {
	case Direct:
		if c.field == nil {
			return fmt.Errorf("%w: direct column %q has no field accessor", ErrInvalidColumn, c.ID)
		}
	case Derived:
		if c.compute == nil {
			return fmt.Errorf("%w: derived column %q has no compute function", ErrInvalidColumn, c.ID)
		}
	default:
		return fmt.Errorf("%w: column %q has unknown kind %d", ErrInvalidColumn, c.ID, c.Kind)
	}
	return nil
}

// ColumnSet is a validated, ordered collection of columns for one row type.
type ColumnSet[T any] struct {
	columns      []Column[T]
	index        map[string]int
	search       func(T) []string
	key          func(T) string
	emptyMessage string
}

// DefaultEmptyMessage is shown when no rows match
const DefaultEmptyMessage = "No results."

// NewColumnSet validates the columns and builds a set. search returns the
// fields matched by the global filter and key returns the stable row key.
func NewColumnSet[T any](search func(T) []string, key func(T) string, cols ...Column[T]) (*ColumnSet[T], error) {
	if key == nil {
		return nil, fmt.Errorf("%w: row key function is required", ErrInvalidColumn)
	}
	if search == nil {
		return nil, fmt.Errorf("%w: search function is required", ErrInvalidColumn)
	}

	set := &ColumnSet[T]{
		columns:      make([]Column[T], 0, len(cols)),
		index:        make(map[string]int, len(cols)),
		search:       search,
		key:          key,
		emptyMessage: DefaultEmptyMessage,
	}
	for _, c := range cols {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, dup := set.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.ID)
		}
		set.index[c.ID] = len(set.columns)
		set.columns = append(set.columns, c)
	}
	return set, nil
}

// WithEmptyMessage sets the text of the empty-state row
func (s *ColumnSet[T]) WithEmptyMessage(msg string) *ColumnSet[T] {
	s.emptyMessage = msg
	return s
}

// EmptyMessage returns the text of the empty-state row
func (s *ColumnSet[T]) EmptyMessage() string {
	return s.emptyMessage
}

// Columns returns the columns in declaration order
func (s *ColumnSet[T]) Columns() []Column[T] {
	return slices.Clone(s.columns)
}

// Column looks up a column by id
func (s *ColumnSet[T]) Column(id string) (Column[T], bool) {
	i, ok := s.index[id]
	if !ok {
		return Column[T]{}, false
	}
	return s.columns[i], true
}

// Key returns the stable key of a row
func (s *ColumnSet[T]) Key(row T) string {
	return s.key(row)
}

// ValidateState checks that every column the state refers to for sorting
// and faceting exists in the set and that sort columns are sortable.
func (s *ColumnSet[T]) ValidateState(state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	for _, k := range state.Sorting {
		col, ok := s.Column(k.Column)
		if !ok {
			return fmt.Errorf("%w: sort %q", ErrUnknownColumn, k.Column)
		}
		if !col.Sortable {
			return fmt.Errorf("%w: %q", ErrNotSortable, k.Column)
		}
	}
	for id, accepted := range state.Facets {
		if len(accepted) == 0 {
			continue
		}
		if _, ok := s.Column(id); !ok {
			return fmt.Errorf("%w: facet %q", ErrUnknownColumn, id)
		}
	}
	return nil
}

// FacetOptions returns the distinct facet values of a column across rows,
// in first-seen order.
func FacetOptions[T any](set *ColumnSet[T], rows []T, columnID string) ([]string, error) {
	col, ok := set.Column(columnID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}

	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, row := range rows {
		v := col.FacetValue(row)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, v)
	}
	return options, nil
}
