package watchlist

import (
	"context"
	"fmt"
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
	"gonum.org/v1/gonum/stat"
)

// Service projects the watchlist and applies reorders and note edits
type Service struct {
	repo         *Repository
	columns      map[domain.PriceBasis]*table.ColumnSet[domain.WatchItem]
	cache        *gocache.Cache
	eventManager *events.Manager
	metrics      *metrics.Metrics
	log          zerolog.Logger

	// mu serialises read-modify-write mutations
	mu sync.Mutex
}

// NewService creates a new watchlist service. eventManager and m may be nil.
func NewService(
	repo *Repository,
	eventManager *events.Manager,
	m *metrics.Metrics,
	summaryTTL time.Duration,
	log zerolog.Logger,
) (*Service, error) {
	columns := make(map[domain.PriceBasis]*table.ColumnSet[domain.WatchItem], 2)
	for _, basis := range []domain.PriceBasis{domain.PriceBasisPrevClose, domain.PriceBasisOpen} {
		set, err := Columns(basis)
		if err != nil {
			return nil, fmt.Errorf("failed to build watchlist columns for %s: %w", basis, err)
		}
		columns[basis] = set
	}

	return &Service{
		repo:         repo,
		columns:      columns,
		cache:        gocache.New(summaryTTL, 2*summaryTTL),
		eventManager: eventManager,
		metrics:      m,
		log:          log.With().Str("service", "watchlist").Logger(),
	}, nil
}

// ColumnsFor returns the column set for a price basis
func (s *Service) ColumnsFor(basis domain.PriceBasis) (*table.ColumnSet[domain.WatchItem], error) {
	parsed, err := domain.ParsePriceBasis(string(basis))
	if err != nil {
		return nil, err
	}
	return s.columns[parsed], nil
}

// ValidateState checks that a display state only refers to watchlist columns.
// Column ids do not depend on the basis.
func (s *Service) ValidateState(state table.State) error {
	return s.columns[domain.PriceBasisPrevClose].ValidateState(state)
}

// Items returns the items of a preset in canonical order
func (s *Service) Items(preset Preset) ([]domain.WatchItem, error) {
	p, err := ParsePreset(string(preset))
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return p.Filter(rows), nil
}

// Project renders one page of a preset under a price basis
func (s *Service) Project(preset Preset, basis domain.PriceBasis, state table.State) (*table.Snapshot, error) {
	set, err := s.ColumnsFor(basis)
	if err != nil {
		return nil, err
	}
	rows, err := s.Items(preset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	snap, err := table.Project(set, rows, state)
	if err != nil {
		s.metrics.ObserveProjection(TableName, 0, 0, err)
		return nil, err
	}
	s.metrics.ObserveProjection(TableName, time.Since(start), snap.FilteredRows, nil)
	return snap, nil
}

// FacetOptions returns the distinct values of a facet column within a preset
func (s *Service) FacetOptions(preset Preset, columnID string) ([]string, error) {
	rows, err := s.Items(preset)
	if err != nil {
		return nil, err
	}
	return table.FacetOptions(s.columns[domain.PriceBasisPrevClose], rows, columnID)
}

// Summary returns the counts and average change of a preset.
// The result is cached until the next mutation or TTL expiry.
func (s *Service) Summary(preset Preset, basis domain.PriceBasis) (*Summary, error) {
	p, err := ParsePreset(string(preset))
	if err != nil {
		return nil, err
	}
	b, err := domain.ParsePriceBasis(string(basis))
	if err != nil {
		return nil, err
	}

	key := string(p) + "|" + string(b)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Summary), nil
	}

	rows, err := s.Items(p)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(p, b, rows)
	s.cache.SetDefault(key, summary)
	return summary, nil
}

// BuildSummary aggregates items under a price basis. The average change is
// 0 for an empty list.
func BuildSummary(preset Preset, basis domain.PriceBasis, items []domain.WatchItem) *Summary {
	summary := &Summary{
		Preset:  preset,
		Basis:   basis,
		Count:   len(items),
		Sectors: make([]SectorCount, 0),
	}

	changes := make([]float64, 0, len(items))
	bySector := make(map[string]int)
	for _, item := range items {
		change := item.ChangePercent(basis)
		changes = append(changes, change)
		switch {
		case change > 0:
			summary.Advancers++
		case change < 0:
			summary.Decliners++
		default:
			summary.Unchanged++
		}
		if item.Alert {
			summary.Alerts++
		}
		bySector[item.Sector]++
	}

	if len(changes) > 0 {
		summary.AverageChange = stat.Mean(changes, nil)
	}

	for sector, count := range bySector {
		summary.Sectors = append(summary.Sectors, SectorCount{Sector: sector, Count: count})
	}
	sort.Slice(summary.Sectors, func(i, j int) bool {
		a, b := summary.Sectors[i], summary.Sectors[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Sector < b.Sector
	})

	summary.Display.AverageChange = domain.FormatPercent(summary.AverageChange)
	return summary
}

// Details returns the drill-down view of a watch item
func (s *Service) Details(symbol string) (*Details, error) {
	item, err := s.get(symbol)
	if err != nil {
		return nil, err
	}
	details := BuildDetails(*item)
	return &details, nil
}

// OpenDrilldown opens a drill-down whose Save stores the note through SaveNote
func (s *Service) OpenDrilldown(ctx context.Context, symbol string) (*Drilldown, error) {
	item, err := s.get(symbol)
	if err != nil {
		return nil, err
	}
	return OpenDrilldown(*item, func(symbol, note string) error {
		return s.SaveNote(ctx, symbol, note)
	}), nil
}

// SaveNote stores the note of the item with the given symbol
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
	s.log.Info().Str("symbol", symbol).Msg("Watchlist note saved")

	if s.eventManager != nil {
		s.eventManager.EmitTyped("watchlist", &events.NoteSavedData{Table: TableName, Symbol: symbol})
	}
	return nil
}

// Reorder drops the source row onto the target row. Canonical and locked
// modes move within the whole watchlist; within_view moves inside the
// preset's filtered and sorted view. A move that resolves to nothing is not
// an error and leaves the order untouched.
func (s *Service) Reorder(ctx context.Context, req ReorderRequest) (*ReorderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode, err := table.ParseReorderMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	preset, err := ParsePreset(string(req.Preset))
	if err != nil {
		return nil, err
	}
	basis := req.Basis
	if basis == "" {
		basis = domain.PriceBasisPrevClose
	}
	set, err := s.ColumnsFor(basis)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	var (
		next  []domain.WatchItem
		moved bool
	)
	if mode == table.ReorderWithinView {
		view, verr := table.View(set, preset.Filter(rows), req.State)
		if verr != nil {
			s.metrics.ObserveReorder(string(mode), "rejected")
			return nil, verr
		}
		next, moved = table.MoveWithinView(rows, view, set.Key, req.Source, req.Target)
	} else {
		next, moved, err = table.Reorder(set, rows, req.State, mode, req.Source, req.Target)
		if err != nil {
			s.metrics.ObserveReorder(string(mode), "rejected")
			return nil, err
		}
	}

	result := &ReorderResult{Moved: moved, Mode: mode, Order: symbols(next)}
	if !moved {
		s.metrics.ObserveReorder(string(mode), "noop")
		return result, nil
	}

	if err := s.repo.SavePositions(result.Order); err != nil {
		return nil, err
	}

	s.Invalidate()
	s.metrics.ObserveReorder(string(mode), "moved")
	s.log.Info().
		Str("source", req.Source).
		Str("target", req.Target).
		Str("mode", string(mode)).
		Msg("Watchlist reordered")

	if s.eventManager != nil {
		s.eventManager.EmitTyped("watchlist", &events.WatchlistReorderedData{
			Source: req.Source,
			Target: req.Target,
			Mode:   string(mode),
		})
	}
	return result, nil
}

// Replace swaps the whole watchlist for the given items, in order
func (s *Service) Replace(items []domain.WatchItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(items); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate drops cached summaries
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func (s *Service) get(symbol string) (*domain.WatchItem, error) {
	item, err := s.repo.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return item, nil
}

func symbols(items []domain.WatchItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Symbol
	}
	return out
}
