package table

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_EmptyRowsRenderEmptyState(t *testing.T) {
	set := positionSet(t).WithEmptyMessage("No holdings.")

	snap, err := Project(set, nil, State{PageIndex: 3, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, snap.Rows)
	require.NotNil(t, snap.Empty)
	assert.Equal(t, "No holdings.", snap.Empty.Message)
	assert.Equal(t, len(snap.Headers), snap.Empty.ColSpan)
	assert.Equal(t, 7, snap.Empty.ColSpan)
	assert.Equal(t, 0, snap.PageCount)
	assert.Equal(t, 0, snap.PageIndex)
	assert.Equal(t, 0, snap.TotalRows)
}

func TestProject_NoMatchesSpansVisibleColumns(t *testing.T) {
	set := positionSet(t)
	state := DefaultState()
	state.GlobalFilter = "does-not-exist"
	state.Visibility = map[string]bool{"sector": false}

	snap, err := Project(set, samplePositions(), state)
	require.NoError(t, err)

	require.NotNil(t, snap.Empty)
	assert.Equal(t, DefaultEmptyMessage, snap.Empty.Message)
	assert.Equal(t, 6, snap.Empty.ColSpan)
	assert.Equal(t, 8, snap.TotalRows)
	assert.Equal(t, 0, snap.FilteredRows)
}

func TestProject_PipelineOrder(t *testing.T) {
	set := positionSet(t)
	state := State{
		GlobalFilter: "a",
		Facets:       map[string][]string{"sector": {"IT", "Banking"}},
		Sorting:      []SortKey{{"value", Desc}},
		PageIndex:    0,
		PageSize:     2,
	}

	snap, err := Project(set, samplePositions(), state)
	require.NoError(t, err)

	// "a" matches TCS, HDFCBANK, RELIANCE, SBIN and TATASTEEL; the facet keeps IT and Banking
	assert.Equal(t, 3, snap.FilteredRows)
	assert.Equal(t, 2, snap.PageCount)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "TCS", snap.Rows[0].Key)
	assert.Equal(t, "HDFCBANK", snap.Rows[1].Key)

	state.PageIndex = 1
	snap, err = Project(set, samplePositions(), state)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "SBIN", snap.Rows[0].Key)
	assert.Nil(t, snap.Empty)
}

func TestProject_ClampsPastLastPage(t *testing.T) {
	set := positionSet(t)

	snap, err := Project(set, samplePositions(), State{PageIndex: 5, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PageIndex)
	assert.Equal(t, 3, snap.PageCount)
	assert.Len(t, snap.Rows, 3)
}

func TestProject_DefaultPageSize(t *testing.T) {
	set := positionSet(t)
	rows := append(samplePositions(), samplePositions()...)

	snap, err := Project(set, rows, State{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, snap.PageSize)
	assert.Len(t, snap.Rows, DefaultPageSize)
	assert.Equal(t, 2, snap.PageCount)
}

func TestProject_RejectsOversizedPage(t *testing.T) {
	set := positionSet(t)

	for _, size := range []int{MaxPageSize + 1, math.MaxInt / 4, math.MaxInt} {
		_, err := Project(set, samplePositions(), State{PageSize: size})
		assert.ErrorIs(t, err, ErrInvalidState, size)
	}

	snap, err := Project(set, samplePositions(), State{PageSize: MaxPageSize})
	require.NoError(t, err)
	assert.Len(t, snap.Rows, len(samplePositions()))
	assert.Equal(t, 1, snap.PageCount)
}

func TestProject_HeadersAndCells(t *testing.T) {
	set := positionSet(t)
	state := DefaultState()
	state.Sorting = []SortKey{{"qty", Desc}}
	state.Visibility = map[string]bool{"sector": false, "symbol": false}
	state.Selection = map[string]bool{"ITC": true}

	snap, err := Project(set, samplePositions(), state)
	require.NoError(t, err)

	ids := make([]string, 0, len(snap.Headers))
	for _, h := range snap.Headers {
		ids = append(ids, h.ID)
		switch h.ID {
		case "qty":
			assert.Equal(t, SortDesc, h.Sort)
		default:
			assert.Equal(t, SortNone, h.Sort)
		}
	}
	// symbol is not hideable, so hiding it has no effect
	assert.Equal(t, []string{"symbol", "qty", "ltp", "value", "pnl", "actions"}, ids)

	first := snap.Rows[0]
	assert.Equal(t, "ITC", first.Key)
	assert.True(t, first.Selected)
	require.Len(t, first.Cells, len(ids))
	assert.Equal(t, "value", first.Cells[3].Column)
	assert.Equal(t, "54600.00", first.Cells[3].Text)
	assert.Equal(t, 54600.0, first.Cells[3].Value)

	valueHeader := snap.Headers[3]
	assert.Equal(t, "derived", valueHeader.Kind)
	assert.False(t, snap.Headers[5].Sortable)
}

func TestProject_InvalidState(t *testing.T) {
	set := positionSet(t)

	_, err := Project(set, samplePositions(), State{PageIndex: -1})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = Project(set, samplePositions(), State{Sorting: []SortKey{{"ghost", Asc}}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestProject_DoesNotMutateState(t *testing.T) {
	set := positionSet(t)
	state := State{Sorting: []SortKey{{"ltp", Asc}}, PageIndex: 9, PageSize: 4}
	before := state.Clone()

	_, err := Project(set, samplePositions(), state)
	require.NoError(t, err)
	assert.Equal(t, before, state)
}

func TestStateFromQuery(t *testing.T) {
	values := url.Values{
		"q":            {" bank "},
		"sort":         {"pnl:desc,symbol"},
		"facet.sector": {"IT,Banking", "Energy"},
		"hide":         {"exchange, group"},
		"page":         {"2"},
		"size":         {"25"},
	}

	state, err := StateFromQuery(values)
	require.NoError(t, err)

	assert.Equal(t, "bank", state.GlobalFilter)
	assert.Equal(t, []SortKey{{"pnl", Desc}, {"symbol", Asc}}, state.Sorting)
	assert.Equal(t, []string{"IT", "Banking", "Energy"}, state.Facets["sector"])
	assert.False(t, state.IsVisible("exchange"))
	assert.False(t, state.IsVisible("group"))
	assert.True(t, state.IsVisible("symbol"))
	assert.Equal(t, 2, state.PageIndex)
	assert.Equal(t, 25, state.PageSize)
}

func TestStateFromQuery_Defaults(t *testing.T) {
	state, err := StateFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), state)
}

func TestStateFromQuery_Invalid(t *testing.T) {
	tests := map[string]url.Values{
		"bad direction":  {"sort": {"pnl:up"}},
		"bad page":       {"page": {"two"}},
		"negative page":  {"page": {"-1"}},
		"bad size":       {"size": {"ten"}},
		"size too large": {"size": {"101"}},
		"size overflow":  {"size": {"9223372036854775807"}},
		"empty facet":    {"facet.": {"x"}},
	}

	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := StateFromQuery(values)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestState_QueryRoundTrip(t *testing.T) {
	state := State{
		GlobalFilter: "tata",
		Sorting:      []SortKey{{"value", Desc}},
		Facets:       map[string][]string{"sector": {"IT", "Metals"}},
		Visibility:   map[string]bool{"sector": false},
		PageIndex:    1,
		PageSize:     5,
	}

	parsed, err := StateFromQuery(state.Query())
	require.NoError(t, err)
	assert.Equal(t, state, parsed)
}
