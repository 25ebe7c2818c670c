// Package views persists table display state so a view can be shared and restored later.
// States are stored as msgpack blobs with expiration timestamps.
package views

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/folioview/internal/table"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// AllTables lists the tables whose views can be saved.
var AllTables = []string{
	"holdings",
	"watchlist",
}

var validTables = func() map[string]bool {
	m := make(map[string]bool, len(AllTables))
	for _, t := range AllTables {
		m[t] = true
	}
	return m
}()

// ValidateTable ensures the table name is one of AllTables.
func ValidateTable(name string) error {
	if !validTables[name] {
		return fmt.Errorf("%w: %s", ErrInvalidTable, name)
	}
	return nil
}

// SavedView is a stored table state.
type SavedView struct {
	ID        string      `json:"id"`
	Table     string      `json:"table"`
	State     table.State `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the view has passed its expiration time.
func (v *SavedView) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// Repository provides storage for saved views in cache.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new saved view repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "views").Logger(),
	}
}

// Store saves a view with expiration = now + ttl.
// Uses INSERT OR REPLACE to upsert data.
func (r *Repository) Store(id, tableName string, state table.State, ttl time.Duration) (*SavedView, error) {
	if err := ValidateTable(tableName); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	blob, err := msgpack.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal view state: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO saved_views (id, table_name, data, created_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		id, tableName, blob, now.Unix(), expiresAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store view %s: %w", id, err)
	}

	return &SavedView{
		ID:        id,
		Table:     tableName,
		State:     state,
		CreatedAt: time.Unix(now.Unix(), 0),
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// GetIfFresh returns the view only if expires_at > now.
// Returns nil, nil if the id doesn't exist or the view is expired.
func (r *Repository) GetIfFresh(id string) (*SavedView, error) {
	row := r.db.QueryRow(
		"SELECT id, table_name, data, created_at, expires_at FROM saved_views WHERE id = ? AND expires_at > ?",
		id, time.Now().Unix(),
	)
	return scanView(row)
}

// Get returns the view regardless of expiration.
// Returns nil, nil if the id doesn't exist.
func (r *Repository) Get(id string) (*SavedView, error) {
	row := r.db.QueryRow(
		"SELECT id, table_name, data, created_at, expires_at FROM saved_views WHERE id = ?",
		id,
	)
	return scanView(row)
}

// Delete removes a view. Deleting a missing id is not an error.
func (r *Repository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM saved_views WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete view %s: %w", id, err)
	}
	return nil
}

// DeleteExpired removes all views where expires_at < now.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM saved_views WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired views: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count, nil
}

// Count returns the number of stored views, expired or not.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM saved_views").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return n, nil
}

func scanView(row *sql.Row) (*SavedView, error) {
	var (
		view      SavedView
		blob      []byte
		createdAt int64
		expiresAt int64
	)
	err := row.Scan(&view.ID, &view.Table, &blob, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query view: %w", err)
	}

	if err := msgpack.Unmarshal(blob, &view.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view state: %w", err)
	}
	view.CreatedAt = time.Unix(createdAt, 0)
	view.ExpiresAt = time.Unix(expiresAt, 0)
	return &view, nil
}
