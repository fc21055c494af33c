package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// UserRepository implements domain.UserStore
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new wallet user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Upsert records a wallet sighting, replacing on conflict.
func (r *UserRepository) Upsert(ctx context.Context, user domain.WalletUser) error {
	query := `
		INSERT INTO wallet_users (wallet_address, last_balance, last_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_address) DO UPDATE
		SET last_balance = EXCLUDED.last_balance,
		    last_seen = EXCLUDED.last_seen
	`
	_, err := r.pool.Exec(ctx, query, user.WalletAddress, user.LastBalance, user.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to upsert wallet user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, walletAddress string) (*domain.WalletUser, error) {
	query := `
		SELECT wallet_address, last_balance, last_seen
		FROM wallet_users
		WHERE wallet_address = $1
	`
	var u domain.WalletUser
	err := r.pool.QueryRow(ctx, query, walletAddress).Scan(&u.WalletAddress, &u.LastBalance, &u.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet user: %w", err)
	}
	return &u, nil
}
