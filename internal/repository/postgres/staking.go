package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// StakingPositionRepository implements domain.StakingPositionStore
type StakingPositionRepository struct {
	pool *pgxpool.Pool
}

// NewStakingPositionRepository creates a new staking position repository
func NewStakingPositionRepository(pool *pgxpool.Pool) *StakingPositionRepository {
	return &StakingPositionRepository{pool: pool}
}

func (r *StakingPositionRepository) Insert(ctx context.Context, owner string, pos domain.StakedPosition) error {
	query := `
		INSERT INTO staking_positions (id, owner, pool_id, amount, value, rewards, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		pos.ID,
		owner,
		pos.PoolID,
		pos.Amount,
		pos.Value,
		pos.Rewards,
		pos.StartDate,
		pos.EndDate,
		pos.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert staking position: %w", err)
	}
	return nil
}

func (r *StakingPositionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.StakedPosition, error) {
	query := `
		SELECT id, pool_id, amount, value, rewards, start_date, end_date, is_active
		FROM staking_positions
		WHERE owner = $1
		ORDER BY start_date DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list staking positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.StakedPosition
	for rows.Next() {
		var p domain.StakedPosition
		if err := rows.Scan(&p.ID, &p.PoolID, &p.Amount, &p.Value, &p.Rewards, &p.StartDate, &p.EndDate, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan staking position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Close marks a position inactive with its end date.
func (r *StakingPositionRepository) Close(ctx context.Context, owner string, id string, endDate time.Time) error {
	query := `
		UPDATE staking_positions
		SET is_active = FALSE, end_date = $1
		WHERE id = $2 AND owner = $3
	`
	_, err := r.pool.Exec(ctx, query, endDate, id, owner)
	if err != nil {
		return fmt.Errorf("failed to close staking position: %w", err)
	}
	return nil
}
