package domain

import (
	"context"
	"time"
)

// StakingPool describes one place tokens can be staked.
type StakingPool struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Token       string  `json:"token"`
	APY         float64 `json:"apy"`
	TVL         float64 `json:"tvl"`
	MinStake    float64 `json:"min_stake"`
	LockupDays  int     `json:"lockup_days"`
	IsLiquid    bool    `json:"is_liquid"`
	Provider    string  `json:"provider"`
	Description string  `json:"description"`
}

// StakedPosition is an open or closed stake in a pool.
type StakedPosition struct {
	ID        string     `json:"id"`
	PoolID    string     `json:"pool_id"`
	Amount    float64    `json:"amount"`
	Value     float64    `json:"value"`
	Rewards   float64    `json:"rewards"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// StakingPositionStore persists staked positions scoped by wallet.
type StakingPositionStore interface {
	Insert(ctx context.Context, owner string, pos StakedPosition) error
	ListByOwner(ctx context.Context, owner string) ([]StakedPosition, error)
	Close(ctx context.Context, owner string, id string, endDate time.Time) error
}
