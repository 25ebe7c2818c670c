package holdings

import (
	"slices"
	"strconv"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/table"
)

// Columns returns the column set of the holdings table
func Columns() (*table.ColumnSet[domain.Holding], error) {
	set, err := table.NewColumnSet(
		func(h domain.Holding) []string { return []string{h.Symbol, h.Name} },
		func(h domain.Holding) string { return h.Symbol },

		table.DirectColumn("symbol", "Symbol",
			func(h domain.Holding) table.Value { return table.String(h.Symbol) }),
		table.DirectColumn("sector", "Sector",
			func(h domain.Holding) table.Value { return table.String(h.Sector) },
			table.WithFilter(func(h domain.Holding, accepted []string) bool {
				return slices.Contains(accepted, h.Sector)
			}),
		),
		table.DirectColumn("qty", "Qty",
			func(h domain.Holding) table.Value { return table.Int(h.Qty) },
			table.WithFormat(func(h domain.Holding) string { return strconv.FormatInt(h.Qty, 10) }),
		),
		table.DirectColumn("avgPrice", "Avg. Price",
			func(h domain.Holding) table.Value { return table.Number(h.AvgPrice) },
			table.WithFormat(func(h domain.Holding) string { return domain.FormatINR(h.AvgPrice) }),
		),
		table.DirectColumn("ltp", "LTP",
			func(h domain.Holding) table.Value { return table.Number(h.LTP) },
			table.WithFormat(func(h domain.Holding) string { return domain.FormatINR(h.LTP) }),
		),
		table.DerivedColumn("value", "Value",
			func(h domain.Holding) table.Value { return table.Number(h.Value()) },
			func(h domain.Holding) string { return domain.FormatINR(h.Value()) },
		),
		table.DerivedColumn("pnl", "Unrealized P&L",
			func(h domain.Holding) table.Value { return table.Number(h.UnrealizedPnL()) },
			func(h domain.Holding) string { return domain.FormatINR(h.UnrealizedPnL()) },
		),
	)
	if err != nil {
		return nil, err
	}
	return set.WithEmptyMessage(EmptyMessage), nil
}
