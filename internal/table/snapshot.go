package table

// SortIndicator is the tri-state header marker
type SortIndicator string

const (
	SortNone SortIndicator = "none"
	SortAsc  SortIndicator = "asc"
	SortDesc SortIndicator = "desc"
)

// Header describes one visible column
type Header struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Kind     string        `json:"kind"`
	Sortable bool          `json:"sortable"`
	Hideable bool          `json:"hideable"`
	Sort     SortIndicator `json:"sort"`
}

// Cell is one rendered cell
type Cell struct {
	Column string `json:"column"`
	Text   string `json:"text"`
	Value  any    `json:"value"`
}

// Row is one rendered row
type Row struct {
	Key      string `json:"key"`
	Selected bool   `json:"selected,omitempty"`
	Cells    []Cell `json:"cells"`
}

// EmptyState is the placeholder row shown when nothing matches
type EmptyState struct {
	Message string `json:"message"`
	ColSpan int    `json:"colspan"`
}

// Snapshot is the rendered result of projecting rows through a state
type Snapshot struct {
	Headers      []Header    `json:"headers"`
	Rows         []Row       `json:"rows"`
	Empty        *EmptyState `json:"empty,omitempty"`
	TotalRows    int         `json:"total_rows"`
	FilteredRows int         `json:"filtered_rows"`
	PageCount    int         `json:"page_count"`
	PageIndex    int         `json:"page_index"`
	PageSize     int         `json:"page_size"`
	Sorting      []SortKey   `json:"sorting"`
}

// Project runs the full pipeline: global filter, facet filters, sort and
// pagination. Visibility only affects which columns are rendered.
func Project[T any](set *ColumnSet[T], rows []T, state State) (*Snapshot, error) {
	view, err := View(set, rows, state)
	if err != nil {
		return nil, err
	}

	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageCount := PageCount(len(view), pageSize)
	pageIndex := state.PageIndex
	if pageCount == 0 || pageIndex >= pageCount {
		pageIndex = 0
	}

	visible := visibleColumns(set, state)
	snap := &Snapshot{
		Headers:      headers(visible, state.Sorting),
		Rows:         make([]Row, 0, min(pageSize, len(view))),
		TotalRows:    len(rows),
		FilteredRows: len(view),
		PageCount:    pageCount,
		PageIndex:    pageIndex,
		PageSize:     pageSize,
		Sorting:      append([]SortKey{}, state.Sorting...),
	}

	for _, row := range Paginate(view, pageIndex, pageSize) {
		key := set.Key(row)
		r := Row{Key: key, Selected: state.Selection[key], Cells: make([]Cell, 0, len(visible))}
		for _, col := range visible {
			r.Cells = append(r.Cells, Cell{
				Column: col.ID,
				Text:   col.Render(row),
				Value:  col.Value(row).Raw(),
			})
		}
		snap.Rows = append(snap.Rows, r)
	}

	if len(snap.Rows) == 0 {
		snap.Empty = &EmptyState{Message: set.EmptyMessage(), ColSpan: len(visible)}
	}
	return snap, nil
}

// visibleColumns returns the columns to render. Only hideable columns can be hidden.
func visibleColumns[T any](set *ColumnSet[T], state State) []Column[T] {
	out := make([]Column[T], 0, len(set.columns))
	for _, col := range set.columns {
		if col.Hideable && !state.IsVisible(col.ID) {
			continue
		}
		out = append(out, col)
	}
	return out
}

func headers[T any](cols []Column[T], sorting []SortKey) []Header {
	out := make([]Header, 0, len(cols))
	for _, col := range cols {
		indicator := SortNone
		for _, k := range sorting {
			if k.Column != col.ID {
				continue
			}
			if k.Direction == Desc {
				indicator = SortDesc
			} else {
				indicator = SortAsc
			}
			break
		}
		out = append(out, Header{
			ID:       col.ID,
			Title:    col.Title,
			Kind:     col.Kind.String(),
			Sortable: col.Sortable,
			Hideable: col.Hideable,
			Sort:     indicator,
		})
	}
	return out
}
