package defi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

func TestLendingService_Supply(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts and records a deposit", func(t *testing.T) {
		store := new(MockLendingPositions)
		store.On("Insert", mock.Anything, testWallet, mock.MatchedBy(func(pos domain.LendingPosition) bool {
			return pos.Type == domain.PositionSupply && pos.PoolID == "sonic-usdc" && pos.Value == 500 && pos.IsActive
		})).Return(nil)

		s := NewLendingService(store)
		assert.True(t, s.Supply(ctx, testWallet, "sonic-usdc", 500))
		store.AssertExpectations(t)
	})

	t.Run("rejects unknown pool", func(t *testing.T) {
		s := NewLendingService(new(MockLendingPositions))
		assert.False(t, s.Supply(ctx, testWallet, "no-such-pool", 500))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		s := NewLendingService(new(MockLendingPositions))
		assert.False(t, s.Supply(ctx, testWallet, "sonic-usdc", 0))
	})
}

func TestLendingService_Borrow(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects borrows beyond pool liquidity", func(t *testing.T) {
		s := NewLendingService(new(MockLendingPositions))
		assert.False(t, s.Borrow(ctx, testWallet, "sonic-sonic", 900000))
	})

	t.Run("accepts a borrow within liquidity", func(t *testing.T) {
		store := new(MockLendingPositions)
		store.On("Insert", mock.Anything, testWallet, mock.MatchedBy(func(pos domain.LendingPosition) bool {
			return pos.Type == domain.PositionBorrow
		})).Return(nil)

		s := NewLendingService(store)
		assert.True(t, s.Borrow(ctx, testWallet, "sonic-usdc", 1000))
	})
}

func TestLendingService_WithdrawRepay(t *testing.T) {
	ctx := context.Background()
	supply := domain.LendingPosition{ID: "sup-1", PoolID: "sonic-usdc", Type: domain.PositionSupply, Amount: 500, Value: 500, StartDate: time.Now(), IsActive: true}
	borrow := domain.LendingPosition{ID: "bor-1", PoolID: "sonic-usdc", Type: domain.PositionBorrow, Amount: 100, Value: 100, StartDate: time.Now(), IsActive: true}

	t.Run("withdraw closes a supply position", func(t *testing.T) {
		store := new(MockLendingPositions)
		store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.LendingPosition{supply, borrow}, nil)
		store.On("Update", mock.Anything, testWallet, mock.MatchedBy(func(pos domain.LendingPosition) bool {
			return pos.ID == "sup-1" && !pos.IsActive
		})).Return(nil)

		s := NewLendingService(store)
		assert.True(t, s.Withdraw(ctx, testWallet, "sup-1"))
		store.AssertExpectations(t)
	})

	t.Run("withdraw cannot close a borrow position", func(t *testing.T) {
		store := new(MockLendingPositions)
		store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.LendingPosition{borrow}, nil)

		s := NewLendingService(store)
		assert.False(t, s.Withdraw(ctx, testWallet, "bor-1"))
	})

	t.Run("repay closes a borrow position", func(t *testing.T) {
		store := new(MockLendingPositions)
		store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.LendingPosition{borrow}, nil)
		store.On("Update", mock.Anything, testWallet, mock.MatchedBy(func(pos domain.LendingPosition) bool {
			return pos.ID == "bor-1" && !pos.IsActive
		})).Return(nil)

		s := NewLendingService(store)
		assert.True(t, s.Repay(ctx, testWallet, "bor-1"))
	})
}

func TestLendingService_Totals(t *testing.T) {
	ctx := context.Background()
	yearAgo := time.Now().AddDate(-1, 0, 0)
	store := new(MockLendingPositions)
	store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.LendingPosition{
		{ID: "a", PoolID: "sonic-usdc", Type: domain.PositionSupply, Value: 1000, StartDate: yearAgo, IsActive: true},
		{ID: "b", PoolID: "sonic-usdc", Type: domain.PositionBorrow, Value: 400, StartDate: yearAgo, IsActive: true},
		{ID: "c", PoolID: "sonic-sol", Type: domain.PositionSupply, Value: 9999, StartDate: yearAgo, IsActive: false},
	}, nil)

	s := NewLendingService(store)
	assert.Equal(t, 1000.0, s.TotalSupplied(ctx, testWallet))
	assert.Equal(t, 400.0, s.TotalBorrowed(ctx, testWallet))

	positions, err := s.Positions(ctx, testWallet)
	assert.NoError(t, err)
	// One year at 5.2% supply APY on $1000.
	assert.InDelta(t, 52, positions[0].Interest, 1)
}
