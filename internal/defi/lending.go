package defi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

const lendingDelay = 600 * time.Millisecond

var lendingPools = []domain.LendingPool{
	{ID: "sonic-usdc", Name: "Sonic USDC Market", Token: "USDC", SupplyAPY: 5.2, BorrowAPY: 7.8, TotalSupply: 12000000, TotalBorrow: 8400000, AvailableLiquidity: 3600000, LTV: 0.85, Provider: "Sonic Lend"},
	{ID: "sonic-sol", Name: "Sonic SOL Market", Token: "SOL", SupplyAPY: 3.8, BorrowAPY: 5.9, TotalSupply: 8500000, TotalBorrow: 5100000, AvailableLiquidity: 3400000, LTV: 0.75, Provider: "Sonic Lend"},
	{ID: "sonic-sonic", Name: "Sonic SONIC Market", Token: "SONIC", SupplyAPY: 9.4, BorrowAPY: 14.2, TotalSupply: 1800000, TotalBorrow: 950000, AvailableLiquidity: 850000, LTV: 0.6, Provider: "Sonic Lend"},
	{ID: "solend-usdc", Name: "Solend USDC", Token: "USDC", SupplyAPY: 4.6, BorrowAPY: 6.9, TotalSupply: 45000000, TotalBorrow: 31000000, AvailableLiquidity: 14000000, LTV: 0.8, Provider: "Solend"},
	{ID: "solend-sol", Name: "Solend SOL", Token: "SOL", SupplyAPY: 3.2, BorrowAPY: 5.1, TotalSupply: 28000000, TotalBorrow: 16000000, AvailableLiquidity: 12000000, LTV: 0.75, Provider: "Solend"},
}

// LendingService is a mock lending protocol backed by a positions store.
type LendingService struct {
	positions domain.LendingPositionStore
}

// NewLendingService creates a lending service.
func NewLendingService(positions domain.LendingPositionStore) *LendingService {
	return &LendingService{positions: positions}
}

// Pools lists all known lending markets.
func (s *LendingService) Pools() []domain.LendingPool {
	out := make([]domain.LendingPool, len(lendingPools))
	copy(out, lendingPools)
	return out
}

func (s *LendingService) pool(id string) (domain.LendingPool, bool) {
	for _, p := range lendingPools {
		if p.ID == id {
			return p, true
		}
	}
	return domain.LendingPool{}, false
}

func (s *LendingService) open(ctx context.Context, owner, poolID string, amount float64, kind domain.LendingPositionType) bool {
	pool, ok := s.pool(poolID)
	if !ok {
		log.Warn().Str("pool", poolID).Msg("lending action rejected: unknown pool")
		return false
	}
	if amount <= 0 {
		return false
	}
	if kind == domain.PositionBorrow && amount > pool.AvailableLiquidity {
		log.Warn().Str("pool", poolID).Float64("amount", amount).
			Msg("borrow rejected: exceeds available liquidity")
		return false
	}

	select {
	case <-time.After(lendingDelay):
	case <-ctx.Done():
		return false
	}

	pos := domain.LendingPosition{
		ID:        uuid.NewString(),
		PoolID:    pool.ID,
		Type:      kind,
		Amount:    amount,
		Value:     amount * tokenPrices[pool.Token],
		Interest:  0,
		StartDate: time.Now().UTC(),
		IsActive:  true,
	}
	if err := s.positions.Insert(ctx, owner, pos); err != nil {
		log.Error().Err(err).Str("wallet", owner).Msg("failed to record lending position")
		return false
	}
	return true
}

func (s *LendingService) close(ctx context.Context, owner, positionID string, kind domain.LendingPositionType) bool {
	positions, err := s.positions.ListByOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Str("wallet", owner).Msg("failed to list lending positions")
		return false
	}

	var target *domain.LendingPosition
	for i := range positions {
		if positions[i].ID == positionID && positions[i].IsActive && positions[i].Type == kind {
			target = &positions[i]
			break
		}
	}
	if target == nil {
		return false
	}

	select {
	case <-time.After(lendingDelay):
	case <-ctx.Done():
		return false
	}

	target.IsActive = false
	if err := s.positions.Update(ctx, owner, *target); err != nil {
		log.Error().Err(err).Str("wallet", owner).Msg("failed to close lending position")
		return false
	}
	return true
}

// Supply deposits tokens into a market. It reports whether the deposit
// was accepted.
func (s *LendingService) Supply(ctx context.Context, owner, poolID string, amount float64) bool {
	return s.open(ctx, owner, poolID, amount, domain.PositionSupply)
}

// Borrow takes a loan from a market. It reports whether the loan was
// accepted.
func (s *LendingService) Borrow(ctx context.Context, owner, poolID string, amount float64) bool {
	return s.open(ctx, owner, poolID, amount, domain.PositionBorrow)
}

// Withdraw closes a supply position. It reports whether the position
// was found and closed.
func (s *LendingService) Withdraw(ctx context.Context, owner, positionID string) bool {
	return s.close(ctx, owner, positionID, domain.PositionSupply)
}

// Repay closes a borrow position. It reports whether the position was
// found and closed.
func (s *LendingService) Repay(ctx context.Context, owner, positionID string) bool {
	return s.close(ctx, owner, positionID, domain.PositionBorrow)
}

// Positions lists a wallet's lending positions with interest accrued
// linearly from the pool rates.
func (s *LendingService) Positions(ctx context.Context, owner string) ([]domain.LendingPosition, error) {
	positions, err := s.positions.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list lending positions: %w", err)
	}
	now := time.Now().UTC()
	for i := range positions {
		positions[i].Interest = accruedInterest(positions[i], now)
	}
	return positions, nil
}

func accruedInterest(pos domain.LendingPosition, now time.Time) float64 {
	pool, ok := func() (domain.LendingPool, bool) {
		for _, p := range lendingPools {
			if p.ID == pos.PoolID {
				return p, true
			}
		}
		return domain.LendingPool{}, false
	}()
	if !ok {
		return 0
	}
	rate := pool.SupplyAPY
	if pos.Type == domain.PositionBorrow {
		rate = pool.BorrowAPY
	}
	years := now.Sub(pos.StartDate).Hours() / (24 * 365)
	if years < 0 {
		years = 0
	}
	return pos.Value * rate / 100 * years
}

func (s *LendingService) total(ctx context.Context, owner string, kind domain.LendingPositionType) float64 {
	positions, err := s.Positions(ctx, owner)
	if err != nil {
		return 0
	}
	var total float64
	for _, p := range positions {
		if p.IsActive && p.Type == kind {
			total += p.Value
		}
	}
	return total
}

// TotalSupplied sums the value of active supply positions.
func (s *LendingService) TotalSupplied(ctx context.Context, owner string) float64 {
	return s.total(ctx, owner, domain.PositionSupply)
}

// TotalBorrowed sums the value of active borrow positions.
func (s *LendingService) TotalBorrowed(ctx context.Context, owner string) float64 {
	return s.total(ctx, owner, domain.PositionBorrow)
}
