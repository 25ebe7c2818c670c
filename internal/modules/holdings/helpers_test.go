package holdings

import (
	"testing"
	"time"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/events"
	testingpkg "github.com/aristath/folioview/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func sampleHoldings() []domain.Holding {
	return []domain.Holding{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Sector: "IT", Qty: 25, AvgPrice: 3600, LTP: 3875},
		{Symbol: "INFY", Name: "Infosys Ltd", Sector: "IT", Qty: 40, AvgPrice: 1450, LTP: 1525},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Sector: "Banking", Qty: 30, AvgPrice: 1520, LTP: 1602},
		{Symbol: "RELIANCE", Name: "Reliance Industries", Sector: "Energy", Qty: 18, AvgPrice: 2450, LTP: 2512},
		{Symbol: "ITC", Name: "ITC Ltd", Sector: "FMCG", Qty: 120, AvgPrice: 440, LTP: 455},
		{Symbol: "SBIN", Name: "State Bank of India", Sector: "Banking", Qty: 60, AvgPrice: 630, LTP: 648},
		{Symbol: "TATASTEEL", Name: "Tata Steel", Sector: "Metals", Qty: 90, AvgPrice: 112, LTP: 118},
		{Symbol: "WIPRO", Name: "Wipro Ltd", Sector: "IT", Qty: 75, AvgPrice: 420, LTP: 408},
	}
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
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	service, err := NewService(repo, manager, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)
	return service
}
