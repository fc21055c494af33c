package agent

import (
	"context"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// The pipeline consumes narrow read surfaces of the peer subsystems so
// it stays testable without real pricing, staking, or lending backends.

// BalanceService exposes the wallet balance snapshot.
type BalanceService interface {
	Refresh(ctx context.Context, owner string) error
	SummaryText(owner string) string
	Lookup(owner, symbol string) (domain.TokenSnapshot, bool)
}

// AlertReader lists a wallet's active price alerts.
type AlertReader interface {
	Active(ctx context.Context, owner string) []domain.PriceAlert
}

// StakingReader exposes staking aggregates.
type StakingReader interface {
	TotalStakedValue(ctx context.Context, owner string) float64
	TotalRewards(ctx context.Context, owner string) float64
}

// LendingReader exposes lending aggregates.
type LendingReader interface {
	TotalSupplied(ctx context.Context, owner string) float64
	TotalBorrowed(ctx context.Context, owner string) float64
}

// SwapReader lists a wallet's executed swaps.
type SwapReader interface {
	History(ctx context.Context, owner string) []domain.SwapRecord
}

// Peers bundles the peer subsystem handles passed into the pipeline.
type Peers struct {
	Balances BalanceService
	Alerts   AlertReader
	Staking  StakingReader
	Lending  LendingReader
	Swap     SwapReader
}
