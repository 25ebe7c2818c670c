package watchlist

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/table"
)

// Columns returns the watchlist column set for a price basis. The change
// column and its title follow the basis.
func Columns(basis domain.PriceBasis) (*table.ColumnSet[domain.WatchItem], error) {
	if _, err := domain.ParsePriceBasis(string(basis)); err != nil {
		return nil, err
	}

	set, err := table.NewColumnSet(
		func(w domain.WatchItem) []string { return []string{w.Symbol, w.Name} },
		func(w domain.WatchItem) string { return w.Symbol },

		table.DirectColumn("symbol", "Symbol",
			func(w domain.WatchItem) table.Value { return table.String(w.Symbol) }),
		table.DirectColumn("exchange", "Exch",
			func(w domain.WatchItem) table.Value { return table.String(string(domain.EffectiveExchange(w))) },
			table.Hideable[domain.WatchItem](),
		),
		table.DirectColumn("sector", "Sector",
			func(w domain.WatchItem) table.Value { return table.String(w.Sector) },
			table.WithFilter(func(w domain.WatchItem, accepted []string) bool {
				return slices.Contains(accepted, w.Sector)
			}),
		),
		table.DirectColumn("group", "Group",
			func(w domain.WatchItem) table.Value { return table.String(domain.EffectiveGroup(w)) },
			table.Hideable[domain.WatchItem](),
			table.WithFacet(domain.EffectiveGroup),
		),
		table.DirectColumn("ltp", "Price",
			func(w domain.WatchItem) table.Value { return table.Number(w.LTP) },
			table.WithFormat(func(w domain.WatchItem) string { return domain.FormatINR(w.LTP) }),
		),
		table.DerivedColumn("changePct", "Change % ("+basis.Label()+")",
			func(w domain.WatchItem) table.Value { return table.Number(w.ChangePercent(basis)) },
			func(w domain.WatchItem) string { return domain.FormatPercent(w.ChangePercent(basis)) },
		),
		table.DerivedColumn("rangeDay", "Day Range",
			func(w domain.WatchItem) table.Value { return table.String(dayRange(w)) },
			dayRange,
			table.NotSortable[domain.WatchItem](),
		),
		table.DerivedColumn("range52w", "52W Range",
			func(w domain.WatchItem) table.Value { return table.String(week52Range(w)) },
			week52Range,
			table.NotSortable[domain.WatchItem](),
		),
		table.DirectColumn("volume", "Volume",
			func(w domain.WatchItem) table.Value { return table.Int(w.Volume) },
			table.WithFormat(func(w domain.WatchItem) string { return domain.FormatCompact(float64(w.Volume)) }),
		),
		table.DirectColumn("marketCap", "Market Cap",
			func(w domain.WatchItem) table.Value { return table.Number(w.MarketCap) },
			table.WithFormat(func(w domain.WatchItem) string { return domain.FormatCompact(w.MarketCap) }),
			table.WithComparator(func(a, b domain.WatchItem) int { return cmp.Compare(a.MarketCap, b.MarketCap) }),
		),
		table.DerivedColumn("alerts", "Alerts",
			func(w domain.WatchItem) table.Value { return table.String(badges(w)) },
			badges,
			table.NotSortable[domain.WatchItem](),
		),
	)
	if err != nil {
		return nil, err
	}
	return set.WithEmptyMessage(EmptyMessage), nil
}

func dayRange(w domain.WatchItem) string {
	return domain.FormatINR(domain.EffectiveLow(w)) + " – " + domain.FormatINR(domain.EffectiveHigh(w))
}

func week52Range(w domain.WatchItem) string {
	return domain.FormatINR(w.Week52Low) + " – " + domain.FormatINR(w.Week52High)
}

func badges(w domain.WatchItem) string {
	var out []string
	if w.Alert {
		out = append(out, "Alert")
	}
	if w.Note != "" {
		out = append(out, "Note")
	}
	return strings.Join(out, " ")
}
