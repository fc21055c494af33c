package domain

import (
	"context"
	"time"
)

// LendingPositionType distinguishes supplied collateral from open loans.
type LendingPositionType string

const (
	PositionSupply LendingPositionType = "supply"
	PositionBorrow LendingPositionType = "borrow"
)

// LendingPool describes one lending market.
type LendingPool struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Token              string  `json:"token"`
	SupplyAPY          float64 `json:"supply_apy"`
	BorrowAPY          float64 `json:"borrow_apy"`
	TotalSupply        float64 `json:"total_supply"`
	TotalBorrow        float64 `json:"total_borrow"`
	AvailableLiquidity float64 `json:"available_liquidity"`
	LTV                float64 `json:"ltv"`
	Provider           string  `json:"provider"`
}

// LendingPosition is a supply or borrow position in a pool.
type LendingPosition struct {
	ID        string              `json:"id"`
	PoolID    string              `json:"pool_id"`
	Type      LendingPositionType `json:"type"`
	Amount    float64             `json:"amount"`
	Value     float64             `json:"value"`
	Interest  float64             `json:"interest"`
	StartDate time.Time           `json:"start_date"`
	IsActive  bool                `json:"is_active"`
}

// LendingPositionStore persists lending positions scoped by wallet.
type LendingPositionStore interface {
	Insert(ctx context.Context, owner string, pos LendingPosition) error
	ListByOwner(ctx context.Context, owner string) ([]LendingPosition, error)
	Update(ctx context.Context, owner string, pos LendingPosition) error
}
