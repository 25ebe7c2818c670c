// Package seed loads the demo holdings and watchlist from TOML and writes
// them through the module services.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/pkg/embedded"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// ErrDuplicateSymbol is returned when a seed table lists a symbol twice
var ErrDuplicateSymbol = errors.New("duplicate symbol")

// Data is the content of a seed file
type Data struct {
	Holdings  []domain.Holding   `toml:"holdings"`
	Watchlist []domain.WatchItem `toml:"watchlist"`
}

// Parse decodes and validates a TOML seed. Unknown keys are rejected.
func Parse(raw []byte) (*Data, error) {
	var data Data
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	seen := make(map[string]struct{}, len(data.Holdings))
	for _, h := range data.Holdings {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[h.Symbol]; dup {
			return nil, fmt.Errorf("%w: holding %s", ErrDuplicateSymbol, h.Symbol)
		}
		seen[h.Symbol] = struct{}{}
	}

	seen = make(map[string]struct{}, len(data.Watchlist))
	for _, w := range data.Watchlist {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[w.Symbol]; dup {
			return nil, fmt.Errorf("%w: watch item %s", ErrDuplicateSymbol, w.Symbol)
		}
		seen[w.Symbol] = struct{}{}
	}

	return &data, nil
}

// Load reads the seed at path, or the embedded default when path is empty
func Load(path string) (*Data, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = embedded.Seed()
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return Parse(raw)
}

// HoldingsReplacer replaces the stored holdings
type HoldingsReplacer interface {
	Replace(holdings []domain.Holding) error
}

// WatchlistReplacer replaces the stored watchlist
type WatchlistReplacer interface {
	Replace(items []domain.WatchItem) error
}

// Seeder writes seed data through the module services
type Seeder struct {
	holdings     HoldingsReplacer
	watchlist    WatchlistReplacer
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewSeeder creates a new seeder. eventManager may be nil.
func NewSeeder(holdings HoldingsReplacer, watchlist WatchlistReplacer, eventManager *events.Manager, log zerolog.Logger) *Seeder {
	return &Seeder{
		holdings:     holdings,
		watchlist:    watchlist,
		eventManager: eventManager,
		log:          log.With().Str("component", "seed").Logger(),
	}
}

// Apply replaces the holdings and the watchlist with data
func (s *Seeder) Apply(data *Data) error {
	if err := s.holdings.Replace(data.Holdings); err != nil {
		return fmt.Errorf("failed to seed holdings: %w", err)
	}
	if err := s.watchlist.Replace(data.Watchlist); err != nil {
		return fmt.Errorf("failed to seed watchlist: %w", err)
	}

	s.log.Info().
		Int("holdings", len(data.Holdings)).
		Int("watchlist", len(data.Watchlist)).
		Msg("Seed data loaded")

	if s.eventManager != nil {
		s.eventManager.EmitTyped("seed", &events.DataSeededData{
			Holdings:  len(data.Holdings),
			Watchlist: len(data.Watchlist),
		})
	}
	return nil
}

// Run loads the seed at path (embedded when empty) and applies it
func (s *Seeder) Run(path string) error {
	data, err := Load(path)
	if err != nil {
		return err
	}
	return s.Apply(data)
}
