package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// LendingPositionRepository implements domain.LendingPositionStore
type LendingPositionRepository struct {
	pool *pgxpool.Pool
}

// NewLendingPositionRepository creates a new lending position repository
func NewLendingPositionRepository(pool *pgxpool.Pool) *LendingPositionRepository {
	return &LendingPositionRepository{pool: pool}
}

func (r *LendingPositionRepository) Insert(ctx context.Context, owner string, pos domain.LendingPosition) error {
	query := `
		INSERT INTO lending_positions (id, owner, pool_id, position_type, amount, value, interest, start_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		pos.ID,
		owner,
		pos.PoolID,
		string(pos.Type),
		pos.Amount,
		pos.Value,
		pos.Interest,
		pos.StartDate,
		pos.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lending position: %w", err)
	}
	return nil
}

func (r *LendingPositionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.LendingPosition, error) {
	query := `
		SELECT id, pool_id, position_type, amount, value, interest, start_date, is_active
		FROM lending_positions
		WHERE owner = $1
		ORDER BY start_date DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list lending positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.LendingPosition
	for rows.Next() {
		var p domain.LendingPosition
		var typeStr string
		if err := rows.Scan(&p.ID, &p.PoolID, &typeStr, &p.Amount, &p.Value, &p.Interest, &p.StartDate, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan lending position: %w", err)
		}
		p.Type = domain.LendingPositionType(typeStr)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Update rewrites a position's mutable fields, scoped by id and owner.
func (r *LendingPositionRepository) Update(ctx context.Context, owner string, pos domain.LendingPosition) error {
	query := `
		UPDATE lending_positions
		SET amount = $1, value = $2, interest = $3, is_active = $4
		WHERE id = $5 AND owner = $6
	`
	_, err := r.pool.Exec(ctx, query, pos.Amount, pos.Value, pos.Interest, pos.IsActive, pos.ID, owner)
	if err != nil {
		return fmt.Errorf("failed to update lending position: %w", err)
	}
	return nil
}
