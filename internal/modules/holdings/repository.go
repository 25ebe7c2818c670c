package holdings

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/folioview/internal/database"
	"github.com/aristath/folioview/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles holding database operations.
// Rows are kept in canonical order through the position column.
//
// Database: portfolio.db (holdings table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "holdings").Logger(),
	}
}

const holdingColumns = `symbol, name, sector, qty, avg_price, ltp, note`

// GetAll returns every holding in canonical order
func (r *Repository) GetAll() ([]domain.Holding, error) {
	rows, err := r.db.Query(`SELECT ` + holdingColumns + ` FROM holdings ORDER BY position, symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// GetBySymbol returns a holding by symbol.
// Returns nil if the symbol doesn't exist (not an error).
func (r *Repository) GetBySymbol(symbol string) (*domain.Holding, error) {
	row := r.db.QueryRow(`SELECT `+holdingColumns+` FROM holdings WHERE symbol = ?`, symbol)
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %s: %w", symbol, err)
	}
	return &h, nil
}

// UpdateNote replaces the note of a holding.
// Returns false if no holding has the symbol.
func (r *Repository) UpdateNote(symbol, note string) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE holdings SET note = ?, updated_at = ? WHERE symbol = ?`,
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

// ReplaceAll deletes every holding and inserts the given ones in order,
// in a single transaction
func (r *Repository) ReplaceAll(holdings []domain.Holding) error {
	for _, h := range holdings {
		if err := h.Validate(); err != nil {
			return err
		}
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM holdings`); err != nil {
			return fmt.Errorf("failed to clear holdings: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO holdings
			(symbol, name, sector, qty, avg_price, ltp, note, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare holding insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for i, h := range holdings {
			if _, err := stmt.Exec(h.Symbol, h.Name, h.Sector, h.Qty, h.AvgPrice, h.LTP, h.Note, i, now); err != nil {
				return fmt.Errorf("failed to insert holding %s: %w", h.Symbol, err)
			}
		}

		r.log.Debug().Int("count", len(holdings)).Msg("Replaced holdings")
		return nil
	})
}

// Count returns the number of holdings
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM holdings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(s scanner) (domain.Holding, error) {
	var h domain.Holding
	err := s.Scan(&h.Symbol, &h.Name, &h.Sector, &h.Qty, &h.AvgPrice, &h.LTP, &h.Note)
	return h, err
}
