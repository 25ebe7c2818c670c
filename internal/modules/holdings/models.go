// Package holdings serves the portfolio holdings table.
package holdings

import "errors"

// TableName identifies the holdings table in saved views, events and metrics
const TableName = "holdings"

// EmptyMessage is shown when no holding matches
const EmptyMessage = "No holdings."

// ErrNotFound is returned when no holding has the requested symbol
var ErrNotFound = errors.New("holding not found")

// Summary aggregates the whole portfolio
type Summary struct {
	TotalValue         float64            `json:"total_value"`
	TotalCost          float64            `json:"total_cost"`
	TotalUnrealizedPnL float64            `json:"total_unrealized_pnl"`
	TotalPnLPct        float64            `json:"total_pnl_pct"`
	Positions          int                `json:"positions"`
	SectorAllocations  []SectorAllocation `json:"sector_allocations"`
	Display            SummaryDisplay     `json:"display"`
}

// SummaryDisplay holds the formatted summary figures
type SummaryDisplay struct {
	TotalValue         string `json:"total_value"`
	TotalUnrealizedPnL string `json:"total_unrealized_pnl"`
	TotalPnLPct        string `json:"total_pnl_pct"`
}

// SectorAllocation is the market value held in one sector
type SectorAllocation struct {
	Sector  string  `json:"sector"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// Details is the drill-down view of a single holding
type Details struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Sector           string  `json:"sector"`
	Qty              int64   `json:"qty"`
	AvgPrice         float64 `json:"avg_price"`
	LTP              float64 `json:"ltp"`
	Value            float64 `json:"value"`
	CostBasis        float64 `json:"cost_basis"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
	Note             string  `json:"note"`
	Display          struct {
		Value            string `json:"value"`
		UnrealizedPnL    string `json:"unrealized_pnl"`
		UnrealizedPnLPct string `json:"unrealized_pnl_pct"`
	} `json:"display"`
}
