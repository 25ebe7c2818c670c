package views

import (
	"database/sql"
	"testing"
	"time"

	"github.com/aristath/folioview/internal/table"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE saved_views (
    id TEXT PRIMARY KEY,
    table_name TEXT NOT NULL,
    data BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX idx_saved_views_expires ON saved_views(expires_at);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

func sampleState() table.State {
	return table.State{
		Sorting:      []table.SortKey{{Column: "pnl", Direction: table.Desc}, {Column: "symbol", Direction: table.Asc}},
		Visibility:   map[string]bool{"sector": false},
		GlobalFilter: "bank",
		Facets:       map[string][]string{"sector": {"Banking", "IT"}},
		PageIndex:    1,
		PageSize:     20,
	}
}

func insertView(t *testing.T, db *sql.DB, id string, expiresAt int64) {
	_, err := db.Exec(
		"INSERT INTO saved_views (id, table_name, data, created_at, expires_at) VALUES (?, 'holdings', X'80', ?, ?)",
		id, time.Now().Unix(), expiresAt,
	)
	require.NoError(t, err)
}

func TestStoreAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())

	stored, err := repo.Store("v1", "holdings", sampleState(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "v1", stored.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), stored.ExpiresAt, 2*time.Second)

	got, err := repo.GetIfFresh("v1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "holdings", got.Table)
	assert.Equal(t, sampleState().Sorting, got.State.Sorting)
	assert.Equal(t, "bank", got.State.GlobalFilter)
	assert.Equal(t, []string{"Banking", "IT"}, got.State.Facets["sector"])
	assert.False(t, got.State.Visibility["sector"])
	assert.Equal(t, 1, got.State.PageIndex)
	assert.Equal(t, 20, got.State.PageSize)
	assert.Equal(t, stored.ExpiresAt.Unix(), got.ExpiresAt.Unix())
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.Store("v1", "holdings", sampleState(), time.Hour)
	require.NoError(t, err)
	_, err = repo.Store("v1", "watchlist", table.DefaultState(), time.Hour)
	require.NoError(t, err)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, "watchlist", got.Table)
	assert.Empty(t, got.State.Sorting)
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.Store("v1", "orders", sampleState(), time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = repo.Store("v1", "holdings", sampleState(), 0)
	assert.Error(t, err)
}

func TestGetIfFresh_Expired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())
	_, err := repo.Store("old", "holdings", sampleState(), time.Hour)
	require.NoError(t, err)

	_, err = db.Exec("UPDATE saved_views SET expires_at = ? WHERE id = 'old'", time.Now().Add(-time.Minute).Unix())
	require.NoError(t, err)

	fresh, err := repo.GetIfFresh("old")
	require.NoError(t, err)
	assert.Nil(t, fresh)

	stale, err := repo.Get("old")
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.True(t, stale.Expired(time.Now()))
}

func TestGet_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())

	got, err := repo.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetIfFresh("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())
	_, err := repo.Store("v1", "holdings", sampleState(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Delete("v1"))
	require.NoError(t, repo.Delete("v1"))

	got, err := repo.Get("v1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().Unix()
	insertView(t, db, "expired-1", now-3600)
	insertView(t, db, "expired-2", now-60)
	insertView(t, db, "fresh", now+3600)

	repo := NewRepository(db, zerolog.Nop())
	deleted, err := repo.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestValidateTable(t *testing.T) {
	for _, name := range AllTables {
		assert.NoError(t, ValidateTable(name))
	}
	assert.ErrorIs(t, ValidateTable("holdings; DROP TABLE saved_views"), ErrInvalidTable)
	assert.ErrorIs(t, ValidateTable(""), ErrInvalidTable)
}
