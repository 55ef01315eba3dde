package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/investifai/investif/internal/apperrors"
	"github.com/investifai/investif/internal/model"
)

// PositionRepository provides data access for a user's tracked positions.
// Writes are merges keyed by (user, ticker): saving one position never
// touches the others.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPositions returns the user's positions in the order they were added.
// Returns an empty slice if the user tracks nothing.
func (r *PositionRepository) GetPositions(ctx context.Context, userID string) ([]model.Position, error) {
	query := `
        SELECT ticker, quantity, price, purchase_date, is_active, updated_at
        FROM positions
        WHERE user_id = ?
        ORDER BY created_at, ticker
    `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		var p model.Position
		var dateStr, updatedStr string
		if err := rows.Scan(&p.Ticker, &p.Quantity, &p.Price, &dateStr, &p.IsActive, &updatedStr); err != nil {
			return nil, fmt.Errorf("failed to scan positions table results: %w", err)
		}
		if p.PurchaseDate, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = ParseTime(updatedStr); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions table: %w", err)
	}

	return positions, nil
}

// UpsertPosition inserts p or overwrites the user's existing position for p.Ticker.
// The original creation time is kept so the list order is stable.
func (r *PositionRepository) UpsertPosition(ctx context.Context, userID string, p model.Position) error {
	query := `
        INSERT INTO positions (user_id, ticker, quantity, price, purchase_date, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id, ticker) DO UPDATE SET
            quantity = excluded.quantity,
            price = excluded.price,
            purchase_date = excluded.purchase_date,
            is_active = excluded.is_active,
            updated_at = excluded.updated_at
    `
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		userID,
		p.Ticker,
		p.Quantity,
		p.Price,
		formatDate(p.PurchaseDate),
		p.IsActive,
		formatTime(updated),
		formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", p.Ticker, err)
	}
	return nil
}

// DeletePosition removes the user's position for ticker.
func (r *PositionRepository) DeletePosition(ctx context.Context, userID, ticker string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM positions WHERE user_id = ? AND ticker = ?`, userID, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", ticker, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", ticker, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, ticker)
	}
	return nil
}
