package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// SwapHistoryRepository implements domain.SwapHistoryStore
type SwapHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewSwapHistoryRepository creates a new swap history repository
func NewSwapHistoryRepository(pool *pgxpool.Pool) *SwapHistoryRepository {
	return &SwapHistoryRepository{pool: pool}
}

func (r *SwapHistoryRepository) Insert(ctx context.Context, owner string, rec domain.SwapRecord) error {
	query := `
		INSERT INTO swap_history (id, owner, input_token, output_token, input_amount, output_amount, executed_at, status, tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		owner,
		rec.InputToken,
		rec.OutputToken,
		rec.InputAmount,
		rec.OutputAmount,
		rec.Timestamp,
		string(rec.Status),
		rec.TxHash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap record: %w", err)
	}
	return nil
}

func (r *SwapHistoryRepository) ListByOwner(ctx context.Context, owner string) ([]domain.SwapRecord, error) {
	query := `
		SELECT id, input_token, output_token, input_amount, output_amount, executed_at, status, tx_hash
		FROM swap_history
		WHERE owner = $1
		ORDER BY executed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap history: %w", err)
	}
	defer rows.Close()

	var records []domain.SwapRecord
	for rows.Next() {
		var rec domain.SwapRecord
		var statusStr string
		if err := rows.Scan(&rec.ID, &rec.InputToken, &rec.OutputToken, &rec.InputAmount, &rec.OutputAmount, &rec.Timestamp, &statusStr, &rec.TxHash); err != nil {
			return nil, fmt.Errorf("failed to scan swap record: %w", err)
		}
		rec.Status = domain.SwapStatus(statusStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}
