package holdings

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/metrics"
	"github.com/aristath/folioview/internal/table"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

const summaryCacheKey = "summary"

// Service projects the holdings table and applies note edits
type Service struct {
	repo         *Repository
	columns      *table.ColumnSet[domain.Holding]
	cache        *gocache.Cache
	eventManager *events.Manager
	metrics      *metrics.Metrics
	log          zerolog.Logger

	// mu serialises read-modify-write mutations
	mu sync.Mutex
}

// NewService creates a new holdings service. eventManager and m may be nil.
func NewService(
	repo *Repository,
	eventManager *events.Manager,
	m *metrics.Metrics,
	summaryTTL time.Duration,
	log zerolog.Logger,
) (*Service, error) {
	columns, err := Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to build holdings columns: %w", err)
	}

	return &Service{
		repo:         repo,
		columns:      columns,
		cache:        gocache.New(summaryTTL, 2*summaryTTL),
		eventManager: eventManager,
		metrics:      m,
		log:          log.With().Str("service", "holdings").Logger(),
	}, nil
}

// Columns returns the holdings column set
func (s *Service) Columns() *table.ColumnSet[domain.Holding] {
	return s.columns
}

// ValidateState checks that a display state only refers to holdings columns
func (s *Service) ValidateState(state table.State) error {
	return s.columns.ValidateState(state)
}

// Project renders one page of the holdings table
func (s *Service) Project(state table.State) (*table.Snapshot, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	snap, err := table.Project(s.columns, rows, state)
	if err != nil {
		s.metrics.ObserveProjection(TableName, 0, 0, err)
		return nil, err
	}
	s.metrics.ObserveProjection(TableName, time.Since(start), snap.FilteredRows, nil)
	return snap, nil
}

// FacetOptions returns the distinct values of a facet column
func (s *Service) FacetOptions(columnID string) ([]string, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return table.FacetOptions(s.columns, rows, columnID)
}

// Summary returns portfolio totals and the sector allocation.
// The result is cached until the next mutation or TTL expiry.
func (s *Service) Summary() (*Summary, error) {
	if cached, ok := s.cache.Get(summaryCacheKey); ok {
		return cached.(*Summary), nil
	}

	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(rows)
	s.cache.SetDefault(summaryCacheKey, summary)
	return summary, nil
}

// BuildSummary aggregates holdings. Sector percentages are rounded to one
// decimal and are 0 when the portfolio has no value.
func BuildSummary(rows []domain.Holding) *Summary {
	values := make([]float64, len(rows))
	costs := make([]float64, len(rows))
	pnls := make([]float64, len(rows))

	bySector := make(map[string]*SectorAllocation)
	for i, h := range rows {
		values[i] = h.Value()
		costs[i] = h.CostBasis()
		pnls[i] = h.UnrealizedPnL()

		alloc, ok := bySector[h.Sector]
		if !ok {
			alloc = &SectorAllocation{Sector: h.Sector}
			bySector[h.Sector] = alloc
		}
		alloc.Value += values[i]
		alloc.Count++
	}

	summary := &Summary{
		TotalValue:         floats.Sum(values),
		TotalCost:          floats.Sum(costs),
		TotalUnrealizedPnL: floats.Sum(pnls),
		Positions:          len(rows),
		SectorAllocations:  make([]SectorAllocation, 0, len(bySector)),
	}
	summary.TotalPnLPct = domain.PercentOf(summary.TotalUnrealizedPnL, summary.TotalCost)

	for _, alloc := range bySector {
		alloc.Percent = math.Round(domain.PercentOf(alloc.Value, summary.TotalValue)*10) / 10
		summary.SectorAllocations = append(summary.SectorAllocations, *alloc)
	}
	sort.Slice(summary.SectorAllocations, func(i, j int) bool {
		a, b := summary.SectorAllocations[i], summary.SectorAllocations[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Sector < b.Sector
	})

	summary.Display = SummaryDisplay{
		TotalValue:         domain.FormatINR(summary.TotalValue),
		TotalUnrealizedPnL: domain.FormatINR(summary.TotalUnrealizedPnL),
		TotalPnLPct:        domain.FormatPercent(summary.TotalPnLPct),
	}
	return summary
}

// Details returns the drill-down view of a holding
func (s *Service) Details(symbol string) (*Details, error) {
	h, err := s.repo.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	details := BuildDetails(*h)
	return &details, nil
}

// SaveNote stores the note of the holding with the given symbol
func (s *Service) SaveNote(ctx context.Context, symbol, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.repo.UpdateNote(symbol, strings.TrimSpace(note))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	s.Invalidate()
	s.metrics.ObserveNoteSaved(TableName)
	s.log.Info().Str("symbol", symbol).Msg("Holding note saved")

	if s.eventManager != nil {
		s.eventManager.EmitTyped("holdings", &events.NoteSavedData{Table: TableName, Symbol: symbol})
	}
	return nil
}

// Replace swaps the whole portfolio for the given holdings, in order
func (s *Service) Replace(holdings []domain.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(holdings); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate drops cached summaries
func (s *Service) Invalidate() {
	s.cache.Flush()
}

// BuildDetails computes the drill-down figures of a holding
func BuildDetails(h domain.Holding) Details {
	d := Details{
		Symbol:           h.Symbol,
		Name:             h.Name,
		Sector:           h.Sector,
		Qty:              h.Qty,
		AvgPrice:         h.AvgPrice,
		LTP:              h.LTP,
		Value:            h.Value(),
		CostBasis:        h.CostBasis(),
		UnrealizedPnL:    h.UnrealizedPnL(),
		UnrealizedPnLPct: h.UnrealizedPnLPct(),
		Note:             h.Note,
	}
	d.Display.Value = domain.FormatINR(d.Value)
	d.Display.UnrealizedPnL = domain.FormatINR(d.UnrealizedPnL)
	d.Display.UnrealizedPnLPct = domain.FormatPercent(d.UnrealizedPnLPct)
	return d
}
