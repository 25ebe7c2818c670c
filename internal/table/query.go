package table

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aristath/folioview/internal/utils"
)

// FacetParamPrefix prefixes facet query parameters, e.g. facet.sector=IT,Banking
const FacetParamPrefix = "facet."

// StateFromQuery parses a display state from URL query parameters:
//
//	q=bank                  global filter
//	sort=pnl:desc,symbol    sort keys, direction defaults to asc
//	facet.sector=IT,Banking accepted facet values
//	hide=exchange,group     hidden columns
//	page=0&size=10          pagination
func StateFromQuery(values url.Values) (State, error) {
	state := DefaultState()
	state.GlobalFilter = strings.TrimSpace(values.Get("q"))

	for _, raw := range splitList(values["sort"]) {
		col, dir, _ := strings.Cut(raw, ":")
		direction, err := ParseDirection(strings.ToLower(strings.TrimSpace(dir)))
		if err != nil {
			return State{}, err
		}
		state.Sorting = append(state.Sorting, SortKey{Column: strings.TrimSpace(col), Direction: direction})
	}

	for name, vals := range values {
		column, ok := strings.CutPrefix(name, FacetParamPrefix)
		if !ok {
			continue
		}
		if column == "" {
			return State{}, fmt.Errorf("%w: facet parameter without column", ErrInvalidState)
		}
		if state.Facets == nil {
			state.Facets = make(map[string][]string)
		}
		state.Facets[column] = append(state.Facets[column], splitList(vals)...)
	}

	for _, col := range splitList(values["hide"]) {
		if state.Visibility == nil {
			state.Visibility = make(map[string]bool)
		}
		state.Visibility[col] = false
	}

	var err error
	if state.PageIndex, err = intParam(values, "page", 0); err != nil {
		return State{}, err
	}
	if state.PageSize, err = intParam(values, "size", DefaultPageSize); err != nil {
		return State{}, err
	}

	if err := state.Validate(); err != nil {
		return State{}, err
	}
	return state, nil
}

// Query encodes the state back into URL query parameters
func (s State) Query() url.Values {
	values := url.Values{}
	if s.GlobalFilter != "" {
		values.Set("q", s.GlobalFilter)
	}
	if len(s.Sorting) > 0 {
		keys := make([]string, 0, len(s.Sorting))
		for _, k := range s.Sorting {
			keys = append(keys, k.Column+":"+string(k.Direction))
		}
		values.Set("sort", strings.Join(keys, ","))
	}
	for col, accepted := range s.Facets {
		if len(accepted) > 0 {
			values.Set(FacetParamPrefix+col, strings.Join(accepted, ","))
		}
	}
	var hidden []string
	for col, visible := range s.Visibility {
		if !visible {
			hidden = append(hidden, col)
		}
	}
	if len(hidden) > 0 {
		values.Set("hide", strings.Join(hidden, ","))
	}
	values.Set("page", strconv.Itoa(s.PageIndex))
	values.Set("size", strconv.Itoa(s.PageSize))
	return values
}

func splitList(raw []string) []string {
	return utils.ParseCSV(raw...)
}

func intParam(values url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidState, name, raw)
	}
	return n, nil
}
