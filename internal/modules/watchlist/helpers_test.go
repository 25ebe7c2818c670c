package watchlist

import (
	"testing"
	"time"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/events"
	testingpkg "github.com/aristath/folioview/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var f = domain.Float64Ptr

func sampleItems() []domain.WatchItem {
	return []domain.WatchItem{
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Sector: "Banking", Group: "Core", Exchange: domain.ExchangeNSE,
			LTP: 1602, Open: f(1590), PrevClose: f(1585), DayHigh: 1610, DayLow: 1588, Week52High: 1794, Week52Low: 1363,
			Volume: 8450000, MarketCap: 1.22e13, Alert: true},
		{Symbol: "INFY", Name: "Infosys", Sector: "IT", Group: "Core", Exchange: domain.ExchangeNSE,
			LTP: 1525, Open: f(1530), PrevClose: f(1540), DayHigh: 1535, DayLow: 1518, Week52High: 1733, Week52Low: 1358,
			Volume: 6200000, MarketCap: 6.33e12},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Sector: "IT", Group: "Core", Exchange: domain.ExchangeNSE,
			LTP: 3875, Open: f(3850), PrevClose: f(3860), DayHigh: 3890, DayLow: 3842, Week52High: 4254, Week52Low: 3311,
			Volume: 2100000, MarketCap: 1.40e13, Note: "Results on Thursday"},
		{Symbol: "ICICIBANK", Name: "ICICI Bank", Sector: "Banking", Exchange: domain.ExchangeBSE,
			LTP: 1085, PrevClose: f(1070), DayHigh: 1092, DayLow: 1076, Week52High: 1196, Week52Low: 899,
			Volume: 9800000, MarketCap: 7.62e12},
		{Symbol: "RELIANCE", Name: "Reliance Industries", Sector: "Energy", Group: "Core", Exchange: domain.ExchangeNSE,
			LTP: 2512, Open: f(2500), PrevClose: f(2512), DayHigh: 2525, DayLow: 2495, Week52High: 3217, Week52Low: 2221,
			Volume: 5600000, MarketCap: 1.70e13},
		{Symbol: "NIFTY24DECFUT", Name: "Nifty 50 Dec Futures", Sector: "Index", Group: "Derivatives", Exchange: domain.ExchangeNFO,
			LTP: 24150, Open: f(24080), PrevClose: f(24010), DayHigh: 24190, DayLow: 24040, Week52High: 26277, Week52Low: 21281,
			Volume: 350000, OI: domain.Int64Ptr(12500000)},
		{Symbol: "GOLDM", Name: "Gold Mini", Sector: "Commodities", Group: "Derivatives", Exchange: domain.ExchangeMCX,
			LTP: 76420, Week52High: 80000, Week52Low: 60000, Volume: 45000, OI: domain.Int64Ptr(18200), Alert: true},
		{Symbol: "SBIN", Name: "State Bank of India", Sector: "Banking", Exchange: domain.ExchangeNSE,
			LTP: 648, Open: f(645), PrevClose: f(652), DayHigh: 655, DayLow: 640, Week52High: 912, Week52Low: 543,
			Volume: 12000000, MarketCap: 5.78e12},
	}
}

func sampleSymbols() []string {
	return symbols(sampleItems())
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	t.Cleanup(cleanup)

	return NewRepository(db.Conn(), zerolog.Nop())
}

func newTestService(t *testing.T, manager *events.Manager) *Service {
	t.Helper()

	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleItems()))

	service, err := NewService(repo, manager, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)
	return service
}
