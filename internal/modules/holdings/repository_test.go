package holdings

import (
	"testing"

	"github.com/aristath/folioview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ReplaceAllKeepsOrder(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	got, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, sampleHoldings(), got)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestRepository_ReplaceAllOverwrites(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	replacement := []domain.Holding{
		{Symbol: "WIPRO", Name: "Wipro Ltd", Sector: "IT", Qty: 1, AvgPrice: 400, LTP: 410},
		{Symbol: "ITC", Name: "ITC Ltd", Sector: "FMCG", Qty: 2, AvgPrice: 450, LTP: 455},
	}
	require.NoError(t, repo.ReplaceAll(replacement))

	got, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, replacement, got)
}

func TestRepository_ReplaceAllRejectsInvalidRows(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	err := repo.ReplaceAll([]domain.Holding{{Symbol: "BAD", Qty: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidRow)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 8, n, "a rejected replacement leaves the portfolio untouched")
}

func TestRepository_ReplaceAllDuplicateSymbolRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	dup := []domain.Holding{
		{Symbol: "TCS", Name: "A", Qty: 1},
		{Symbol: "TCS", Name: "B", Qty: 1},
	}
	assert.Error(t, repo.ReplaceAll(dup))

	got, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestRepository_GetBySymbol(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	h, err := repo.GetBySymbol("ITC")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, int64(120), h.Qty)

	h, err = repo.GetBySymbol("NOPE")
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestRepository_UpdateNote(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.ReplaceAll(sampleHoldings()))

	found, err := repo.UpdateNote("INFY", "add on dips")
	require.NoError(t, err)
	assert.True(t, found)

	h, err := repo.GetBySymbol("INFY")
	require.NoError(t, err)
	assert.Equal(t, "add on dips", h.Note)

	found, err = repo.UpdateNote("NOPE", "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_EmptyTable(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.GetAll()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
