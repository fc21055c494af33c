package domain

import (
	"context"
	"time"
)

// WalletUser is a wallet the service has seen, with its last known
// portfolio value. The wallet address is the identity key for all
// conversation and position data.
type WalletUser struct {
	WalletAddress string    `json:"wallet_address"`
	LastBalance   float64   `json:"last_balance"`
	LastSeen      time.Time `json:"last_seen"`
}

// UserStore records wallet sightings, replace-on-conflict by address.
type UserStore interface {
	Upsert(ctx context.Context, user WalletUser) error
	Get(ctx context.Context, walletAddress string) (*WalletUser, error)
}
