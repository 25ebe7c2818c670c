package table

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	Symbol string
	Name   string
	Sector string
	Qty    int64
	Avg    float64
	LTP    float64
}

func positionSet(t *testing.T) *ColumnSet[position] {
	t.Helper()

	set, err := NewColumnSet(
		func(p position) []string { return []string{p.Symbol, p.Name} },
		func(p position) string { return p.Symbol },
		DirectColumn("symbol", "Symbol", func(p position) Value { return String(p.Symbol) }),
		DirectColumn("sector", "Sector", func(p position) Value { return String(p.Sector) },
			WithFilter(func(p position, accepted []string) bool { return slices.Contains(accepted, p.Sector) }),
			Hideable[position](),
		),
		DirectColumn("qty", "Qty", func(p position) Value { return Int(p.Qty) }),
		DirectColumn("ltp", "LTP", func(p position) Value { return Number(p.LTP) }),
		DerivedColumn("value", "Value",
			func(p position) Value { return Number(float64(p.Qty) * p.LTP) },
			func(p position) string { return fmt.Sprintf("%.2f", float64(p.Qty)*p.LTP) },
		),
		DerivedColumn("pnl", "P&L",
			func(p position) Value { return Number((p.LTP - p.Avg) * float64(p.Qty)) },
			nil,
		),
		DerivedColumn("actions", "", func(p position) Value { return String("") }, nil, NotSortable[position]()),
	)
	require.NoError(t, err)
	return set
}

func samplePositions() []position {
	return []position{
		{"TCS", "Tata Consultancy Services", "IT", 25, 3600, 3875},
		{"INFY", "Infosys", "IT", 40, 1450, 1525},
		{"HDFCBANK", "HDFC Bank", "Banking", 30, 1520, 1602},
		{"RELIANCE", "Reliance Industries", "Energy", 18, 2450, 2512},
		{"ITC", "ITC Ltd", "FMCG", 120, 440, 455},
		{"SBIN", "State Bank of India", "Banking", 60, 630, 648},
		{"TATASTEEL", "Tata Steel", "Metals", 90, 112, 118},
		{"WIPRO", "Wipro", "IT", 75, 420, 408},
	}
}

var sectors = []string{"IT", "Banking", "Energy", "FMCG", "Metals"}

func randomPositions(r *rand.Rand, n int) []position {
	out := make([]position, n)
	for i := range out {
		out[i] = position{
			Symbol: fmt.Sprintf("SYM%03d", i),
			Name:   fmt.Sprintf("Company %c%c", 'A'+r.Intn(26), 'a'+r.Intn(26)),
			Sector: sectors[r.Intn(len(sectors))],
			Qty:    int64(r.Intn(5)),
			Avg:    float64(r.Intn(50)),
			LTP:    float64(r.Intn(50)),
		}
	}
	return out
}

func symbols(rows []position) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func isSubsequence(sub, full []position) bool {
	j := 0
	for _, r := range full {
		if j < len(sub) && sub[j].Symbol == r.Symbol {
			j++
		}
	}
	return j == len(sub)
}

func TestApplyGlobalFilter_SubsequenceAndContainment(t *testing.T) {
	set := positionSet(t)
	r := rand.New(rand.NewSource(42))
	queries := []string{"a", "SYM00", "company b", "z", "sym01", "Ca"}

	for i := 0; i < 50; i++ {
		rows := randomPositions(r, r.Intn(40))
		for _, q := range queries {
			got := ApplyGlobalFilter(set, rows, q)
			assert.True(t, isSubsequence(got, rows), "query %q not a subsequence", q)
			for _, row := range got {
				hay := strings.ToLower(row.Symbol + "\x00" + row.Name)
				assert.Contains(t, hay, strings.ToLower(q))
			}
			// every excluded row must not match
			assert.Equal(t, countMatching(rows, q), len(got))
		}
	}
}

func countMatching(rows []position, q string) int {
	n := 0
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Symbol), strings.ToLower(q)) ||
			strings.Contains(strings.ToLower(r.Name), strings.ToLower(q)) {
			n++
		}
	}
	return n
}

func TestApplyGlobalFilter_BlankIsIdentity(t *testing.T) {
	set := positionSet(t)
	rows := samplePositions()

	assert.Equal(t, rows, ApplyGlobalFilter(set, rows, ""))
	assert.Equal(t, rows, ApplyGlobalFilter(set, rows, "   "))
}

func TestApplyGlobalFilter_BankMatchesOnlyHDFC(t *testing.T) {
	set := positionSet(t)
	rows := []position{
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Sector: "Banking"},
		{Symbol: "INFY", Name: "Infosys", Sector: "IT"},
	}

	got := ApplyGlobalFilter(set, rows, "bank")
	assert.Equal(t, []string{"HDFCBANK"}, symbols(got))
}

func TestApplyFacetFilters_Iff(t *testing.T) {
	set := positionSet(t)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		rows := randomPositions(r, r.Intn(40))
		accepted := []string{sectors[r.Intn(len(sectors))], sectors[r.Intn(len(sectors))]}
		facets := map[string][]string{"sector": accepted, "symbol": {}}

		got, err := ApplyFacetFilters(set, rows, facets)
		require.NoError(t, err)
		require.True(t, isSubsequence(got, rows))

		kept := make(map[string]bool, len(got))
		for _, g := range got {
			kept[g.Symbol] = true
		}
		for _, row := range rows {
			assert.Equal(t, slices.Contains(accepted, row.Sector), kept[row.Symbol], row.Symbol)
		}
	}
}

func TestApplyFacetFilters_AndAcrossColumns(t *testing.T) {
	set := positionSet(t)

	got, err := ApplyFacetFilters(set, samplePositions(), map[string][]string{
		"sector": {"IT", "Banking"},
		"qty":    {"40", "60"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"INFY", "SBIN"}, symbols(got))
}

func TestApplyFacetFilters_UnknownColumn(t *testing.T) {
	set := positionSet(t)
	_, err := ApplyFacetFilters(set, samplePositions(), map[string][]string{"country": {"IN"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestApplySort_StableAndIdempotent(t *testing.T) {
	set := positionSet(t)
	r := rand.New(rand.NewSource(99))

	for i := 0; i < 50; i++ {
		rows := randomPositions(r, r.Intn(60))
		for _, key := range []SortKey{{"qty", Asc}, {"pnl", Desc}, {"sector", Asc}} {
			once, err := ApplySort(set, rows, []SortKey{key})
			require.NoError(t, err)
			twice, err := ApplySort(set, once, []SortKey{key})
			require.NoError(t, err)
			assert.Equal(t, symbols(once), symbols(twice))

			// ties keep their input order
			col, _ := set.Column(key.Column)
			for j := 1; j < len(once); j++ {
				if col.Compare(once[j-1], once[j]) == 0 {
					assert.Less(t, indexOf(rows, once[j-1].Symbol), indexOf(rows, once[j].Symbol))
				}
			}
		}
	}
}

func indexOf(rows []position, symbol string) int {
	return slices.IndexFunc(rows, func(p position) bool { return p.Symbol == symbol })
}

func TestApplySort_DerivedValueMatchesRecomputation(t *testing.T) {
	set := positionSet(t)
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 30; i++ {
		rows := randomPositions(r, 30)
		shuffled := slices.Clone(rows)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := ApplySort(set, shuffled, []SortKey{{"value", Asc}})
		require.NoError(t, err)
		for j := 1; j < len(got); j++ {
			prev := float64(got[j-1].Qty) * got[j-1].LTP
			cur := float64(got[j].Qty) * got[j].LTP
			assert.LessOrEqual(t, prev, cur)
		}
	}
}

func TestApplySort_PnLDescendingPutsTCSFirst(t *testing.T) {
	set := positionSet(t)
	rows := []position{
		{Symbol: "TCS", Qty: 25, Avg: 3600, LTP: 3875},
		{Symbol: "INFY", Qty: 40, Avg: 1450, LTP: 1525},
	}

	got, err := ApplySort(set, rows, []SortKey{{"pnl", Desc}})
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS", "INFY"}, symbols(got))
}

func TestApplySort_MultiKey(t *testing.T) {
	set := positionSet(t)

	got, err := ApplySort(set, samplePositions(), []SortKey{{"sector", Asc}, {"qty", Desc}})
	require.NoError(t, err)
	assert.Equal(t, []string{"SBIN", "HDFCBANK", "RELIANCE", "ITC", "WIPRO", "INFY", "TCS", "TATASTEEL"}, symbols(got))
}

func TestApplySort_Errors(t *testing.T) {
	set := positionSet(t)

	_, err := ApplySort(set, samplePositions(), []SortKey{{"missing", Asc}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ApplySort(set, samplePositions(), []SortKey{{"actions", Asc}})
	assert.ErrorIs(t, err, ErrNotSortable)

	_, err = ApplySort(set, samplePositions(), []SortKey{{"qty", "sideways"}})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApplySort_DoesNotMutateInput(t *testing.T) {
	set := positionSet(t)
	rows := samplePositions()
	before := symbols(rows)

	_, err := ApplySort(set, rows, []SortKey{{"symbol", Desc}})
	require.NoError(t, err)
	assert.Equal(t, before, symbols(rows))
}

func TestPaginate_Bounds(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		rows := randomPositions(r, r.Intn(35))
		size := 1 + r.Intn(10)
		page := r.Intn(6)

		got := Paginate(rows, page, size)
		switch {
		case page*size >= len(rows):
			assert.Empty(t, got)
		case page == PageCount(len(rows), size)-1:
			assert.LessOrEqual(t, len(got), size)
			assert.NotEmpty(t, got)
		default:
			assert.Len(t, got, size)
		}
	}
}

func TestPaginate_HugeIndexOrSize(t *testing.T) {
	rows := samplePositions()[:3]

	assert.Empty(t, Paginate(rows, math.MaxInt/2+1, 2))
	assert.Empty(t, Paginate(rows, math.MaxInt, math.MaxInt))
	assert.Len(t, Paginate(rows, 0, math.MaxInt), 3)
	assert.Empty(t, Paginate(rows, 1, math.MaxInt))
	assert.Empty(t, Paginate([]position{}, 0, 5))
}

func TestPaginate_NonPositiveSizeReturnsAll(t *testing.T) {
	rows := samplePositions()
	assert.Len(t, Paginate(rows, 3, 0), len(rows))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 1, PageCount(5, 0))
	assert.Equal(t, 1, PageCount(3, math.MaxInt))
	assert.Equal(t, 1, PageCount(math.MaxInt, math.MaxInt))
	assert.Equal(t, 2, PageCount(math.MaxInt, math.MaxInt-1))
}

func TestFacetOptions_FirstSeenOrder(t *testing.T) {
	set := positionSet(t)

	opts, err := FacetOptions(set, samplePositions(), "sector")
	require.NoError(t, err)
	assert.Equal(t, []string{"IT", "Banking", "Energy", "FMCG", "Metals"}, opts)

	_, err = FacetOptions(set, samplePositions(), "nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestColumnSet_ValidateState(t *testing.T) {
	set := positionSet(t)

	assert.NoError(t, set.ValidateState(DefaultState()))
	assert.NoError(t, set.ValidateState(State{
		Sorting: []SortKey{{"pnl", Desc}},
		Facets:  map[string][]string{"sector": {"IT"}, "unknown": nil},
	}))

	tests := []struct {
		name  string
		state State
		want  error
	}{
		{"unknown sort", State{Sorting: []SortKey{{"missing", Asc}}}, ErrUnknownColumn},
		{"unsortable", State{Sorting: []SortKey{{"actions", Asc}}}, ErrNotSortable},
		{"unknown facet", State{Facets: map[string][]string{"exchange": {"NSE"}}}, ErrUnknownColumn},
		{"negative page", State{PageIndex: -1}, ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, set.ValidateState(tt.state), tt.want)
		})
	}
}
