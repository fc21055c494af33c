package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// AlertRepository implements domain.AlertStore
type AlertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository creates a new price alert repository
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

func (r *AlertRepository) Insert(ctx context.Context, owner string, alert domain.PriceAlert) error {
	query := `
		INSERT INTO price_alerts (id, owner, token, price_threshold, condition, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		alert.ID,
		owner,
		alert.Token,
		alert.Price,
		string(alert.Condition),
		alert.Active,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) ListByOwner(ctx context.Context, owner string) ([]domain.PriceAlert, error) {
	query := `
		SELECT id, token, price_threshold, condition, active, created_at
		FROM price_alerts
		WHERE owner = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list price alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.PriceAlert
	for rows.Next() {
		var a domain.PriceAlert
		var condStr string
		if err := rows.Scan(&a.ID, &a.Token, &a.Price, &condStr, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price alert: %w", err)
		}
		a.Condition = domain.AlertCondition(condStr)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *AlertRepository) SetActive(ctx context.Context, owner string, id uuid.UUID, active bool) error {
	query := `UPDATE price_alerts SET active = $1 WHERE id = $2 AND owner = $3`
	_, err := r.pool.Exec(ctx, query, active, id, owner)
	if err != nil {
		return fmt.Errorf("failed to update price alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	query := `DELETE FROM price_alerts WHERE id = $1 AND owner = $2`
	_, err := r.pool.Exec(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete price alert: %w", err)
	}
	return nil
}
