package watchlist

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/folioview/internal/database"
	"github.com/aristath/folioview/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles watch item database operations.
// The position column holds the canonical order that manual reordering changes.
//
// Database: portfolio.db (watchlist table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "watchlist").Logger(),
	}
}

const itemColumns = `symbol, name, sector, grp, exchange, ltp, open, prev_close,
	day_high, day_low, week52_high, week52_low, volume, market_cap, oi, alert, note`

// GetAll returns every watch item in canonical order
func (r *Repository) GetAll() ([]domain.WatchItem, error) {
	rows, err := r.db.Query(`SELECT ` + itemColumns + ` FROM watchlist ORDER BY position, symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]domain.WatchItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return items, nil
}

// GetBySymbol returns a watch item by symbol.
// Returns nil if the symbol doesn't exist (not an error).
func (r *Repository) GetBySymbol(symbol string) (*domain.WatchItem, error) {
	row := r.db.QueryRow(`SELECT `+itemColumns+` FROM watchlist WHERE symbol = ?`, symbol)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watch item %s: %w", symbol, err)
	}
	return &item, nil
}

// UpdateNote replaces the note of a watch item.
// Returns false if no item has the symbol.
func (r *Repository) UpdateNote(symbol, note string) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE watchlist SET note = ?, updated_at = ? WHERE symbol = ?`,
		note, time.Now().Unix(), symbol,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update note for %s: %w", symbol, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// SavePositions stores symbols[i] at position i, in a single transaction.
// Every symbol must exist.
func (r *Repository) SavePositions(symbols []string) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`UPDATE watchlist SET position = ?, updated_at = ? WHERE symbol = ?`)
		if err != nil {
			return fmt.Errorf("failed to prepare position update: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for i, symbol := range symbols {
			result, err := stmt.Exec(i, now, symbol)
			if err != nil {
				return fmt.Errorf("failed to update position of %s: %w", symbol, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, symbol)
			}
		}
		return nil
	})
}

// ReplaceAll deletes every watch item and inserts the given ones in order,
// in a single transaction
func (r *Repository) ReplaceAll(items []domain.WatchItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM watchlist`); err != nil {
			return fmt.Errorf("failed to clear watchlist: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO watchlist
			(` + itemColumns + `, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare watch item insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for i, w := range items {
			_, err := stmt.Exec(
				w.Symbol, w.Name, w.Sector, w.Group, string(domain.EffectiveExchange(w)), w.LTP,
				nullFloat(w.Open), nullFloat(w.PrevClose),
				w.DayHigh, w.DayLow, w.Week52High, w.Week52Low, w.Volume, w.MarketCap,
				nullInt(w.OI), w.Alert, w.Note,
				i, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert watch item %s: %w", w.Symbol, err)
			}
		}

		r.log.Debug().Int("count", len(items)).Msg("Replaced watchlist")
		return nil
	})
}

// Count returns the number of watch items
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM watchlist`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count watchlist: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(s scanner) (domain.WatchItem, error) {
	var (
		item      domain.WatchItem
		exchange  string
		open      sql.NullFloat64
		prevClose sql.NullFloat64
		oi        sql.NullInt64
	)
	err := s.Scan(
		&item.Symbol, &item.Name, &item.Sector, &item.Group, &exchange, &item.LTP,
		&open, &prevClose,
		&item.DayHigh, &item.DayLow, &item.Week52High, &item.Week52Low, &item.Volume, &item.MarketCap,
		&oi, &item.Alert, &item.Note,
	)
	if err != nil {
		return item, err
	}

	item.Exchange = domain.Exchange(exchange)
	if open.Valid {
		item.Open = domain.Float64Ptr(open.Float64)
	}
	if prevClose.Valid {
		item.PrevClose = domain.Float64Ptr(prevClose.Float64)
	}
	if oi.Valid {
		item.OI = domain.Int64Ptr(oi.Int64)
	}
	return item, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
