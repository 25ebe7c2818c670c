// Package domain provides core domain models and types.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidPriceBasis is returned for price basis values other than prevClose and open
	ErrInvalidPriceBasis = errors.New("invalid price basis")
	// ErrInvalidExchange is returned for exchange codes outside NSE, BSE, MCX and NFO
	ErrInvalidExchange = errors.New("invalid exchange")
	// ErrInvalidRow is returned when a holding or watch item violates its invariants
	ErrInvalidRow = errors.New("invalid row")
)

// DefaultGroup is the group shown for watch items without one
const DefaultGroup = "General"

// Exchange represents the venue an instrument trades on
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
	ExchangeMCX Exchange = "MCX"
	ExchangeNFO Exchange = "NFO"
)

// ParseExchange converts a string to an Exchange. Empty input resolves to NSE.
func ParseExchange(s string) (Exchange, error) {
	switch Exchange(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ExchangeNSE:
		return ExchangeNSE, nil
	case ExchangeBSE:
		return ExchangeBSE, nil
	case ExchangeMCX:
		return ExchangeMCX, nil
	case ExchangeNFO:
		return ExchangeNFO, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExchange, s)
	}
}

// PriceBasis selects the reference price for percentage change
type PriceBasis string

const (
	PriceBasisPrevClose PriceBasis = "prevClose"
	PriceBasisOpen      PriceBasis = "open"
)

// ParsePriceBasis converts a string to a PriceBasis
func ParsePriceBasis(s string) (PriceBasis, error) {
	switch PriceBasis(strings.TrimSpace(s)) {
	case PriceBasisPrevClose:
		return PriceBasisPrevClose, nil
	case PriceBasisOpen:
		return PriceBasisOpen, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriceBasis, s)
	}
}

// Label returns the human readable name used in column titles
func (b PriceBasis) Label() string {
	if b == PriceBasisOpen {
		return "Open"
	}
	return "Prev Close"
}

// Holding represents a portfolio position
type Holding struct {
	Symbol   string  `json:"symbol" toml:"symbol"`
	Name     string  `json:"name" toml:"name"`
	Sector   string  `json:"sector" toml:"sector"`
	Qty      int64   `json:"qty" toml:"qty"`
	AvgPrice float64 `json:"avg_price" toml:"avg_price"`
	LTP      float64 `json:"ltp" toml:"ltp"`
	Note     string  `json:"note,omitempty" toml:"note"`
}

// Value returns the market value of the position (qty × ltp)
func (h Holding) Value() float64 {
	return float64(h.Qty) * h.LTP
}

// CostBasis returns the amount paid for the position (qty × avg price)
func (h Holding) CostBasis() float64 {
	return float64(h.Qty) * h.AvgPrice
}

// UnrealizedPnL returns (ltp − avg price) × qty
func (h Holding) UnrealizedPnL() float64 {
	return (h.LTP - h.AvgPrice) * float64(h.Qty)
}

// UnrealizedPnLPct returns the PnL as a percentage of cost basis
func (h Holding) UnrealizedPnLPct() float64 {
	return PercentOf(h.UnrealizedPnL(), h.CostBasis())
}

// Validate checks the holding invariants
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("%w: holding symbol is required", ErrInvalidRow)
	}
	if h.Qty < 0 {
		return fmt.Errorf("%w: holding %s has negative qty %d", ErrInvalidRow, h.Symbol, h.Qty)
	}
	if !validPrice(h.AvgPrice) || !validPrice(h.LTP) {
		return fmt.Errorf("%w: holding %s has a negative or non-finite price", ErrInvalidRow, h.Symbol)
	}
	return nil
}

// WatchItem represents a tracked instrument
type WatchItem struct {
	Symbol     string   `json:"symbol" toml:"symbol"`
	Name       string   `json:"name" toml:"name"`
	Sector     string   `json:"sector" toml:"sector"`
	Group      string   `json:"group,omitempty" toml:"group"`
	Exchange   Exchange `json:"exchange,omitempty" toml:"exchange"`
	LTP        float64  `json:"ltp" toml:"ltp"`
	Open       *float64 `json:"open,omitempty" toml:"open"`
	PrevClose  *float64 `json:"prev_close,omitempty" toml:"prev_close"`
	DayHigh    float64  `json:"day_high" toml:"day_high"`
	DayLow     float64  `json:"day_low" toml:"day_low"`
	Week52High float64  `json:"week52_high" toml:"week52_high"`
	Week52Low  float64  `json:"week52_low" toml:"week52_low"`
	Volume     int64    `json:"volume" toml:"volume"`
	MarketCap  float64  `json:"market_cap" toml:"market_cap"`
	OI         *int64   `json:"oi,omitempty" toml:"oi"`
	Alert      bool     `json:"alert" toml:"alert"`
	Note       string   `json:"note,omitempty" toml:"note"`
}

// ChangePercent returns the percentage move of LTP against the chosen basis.
// A zero basis yields 0.
func (w WatchItem) ChangePercent(basis PriceBasis) float64 {
	var base float64
	if basis == PriceBasisOpen {
		base = EffectiveOpen(w)
	} else {
		base = EffectiveClose(w)
	}
	return PercentOf(w.LTP-base, base)
}

// Validate checks the watch item invariants
func (w WatchItem) Validate() error {
	if strings.TrimSpace(w.Symbol) == "" {
		return fmt.Errorf("%w: watch item symbol is required", ErrInvalidRow)
	}
	if _, err := ParseExchange(string(w.Exchange)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRow, w.Symbol, err)
	}
	values := []float64{w.LTP, w.DayHigh, w.DayLow, w.Week52High, w.Week52Low, w.MarketCap}
	if w.Open != nil {
		values = append(values, *w.Open)
	}
	if w.PrevClose != nil {
		values = append(values, *w.PrevClose)
	}
	for _, v := range values {
		if !validPrice(v) {
			return fmt.Errorf("%w: watch item %s has a negative or non-finite price field", ErrInvalidRow, w.Symbol)
		}
	}
	if w.Volume < 0 || (w.OI != nil && *w.OI < 0) {
		return fmt.Errorf("%w: watch item %s has a negative volume or open interest", ErrInvalidRow, w.Symbol)
	}
	return nil
}

// EffectiveOpen returns the day's open, or LTP when no open is known
func EffectiveOpen(w WatchItem) float64 {
	if w.Open != nil {
		return *w.Open
	}
	return w.LTP
}

// EffectiveClose returns the previous close, or LTP when none is known
func EffectiveClose(w WatchItem) float64 {
	if w.PrevClose != nil {
		return *w.PrevClose
	}
	return w.LTP
}

// EffectiveHigh returns the day high, or LTP when it is unset
func EffectiveHigh(w WatchItem) float64 {
	if w.DayHigh > 0 {
		return w.DayHigh
	}
	return w.LTP
}

// EffectiveLow returns the day low, or LTP when it is unset
func EffectiveLow(w WatchItem) float64 {
	if w.DayLow > 0 {
		return w.DayLow
	}
	return w.LTP
}

// EffectiveGroup returns the item's group, or DefaultGroup
func EffectiveGroup(w WatchItem) string {
	if strings.TrimSpace(w.Group) != "" {
		return w.Group
	}
	return DefaultGroup
}

// EffectiveExchange returns the item's exchange, or NSE
func EffectiveExchange(w WatchItem) Exchange {
	if w.Exchange == "" {
		return ExchangeNSE
	}
	return w.Exchange
}

// PercentOf returns part / whole × 100, or 0 when the result would not be finite
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	pct := part / whole * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// validPrice reports whether v is a finite, non-negative amount
func validPrice(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
