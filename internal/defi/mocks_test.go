package defi

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// MockStakingPositions mocks the StakingPositionStore interface
type MockStakingPositions struct {
	mock.Mock
}

func (m *MockStakingPositions) Insert(ctx context.Context, owner string, pos domain.StakedPosition) error {
	args := m.Called(ctx, owner, pos)
	return args.Error(0)
}

func (m *MockStakingPositions) ListByOwner(ctx context.Context, owner string) ([]domain.StakedPosition, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StakedPosition), args.Error(1)
}

func (m *MockStakingPositions) Close(ctx context.Context, owner string, id string, endDate time.Time) error {
	args := m.Called(ctx, owner, id, endDate)
	return args.Error(0)
}

// MockLendingPositions mocks the LendingPositionStore interface
type MockLendingPositions struct {
	mock.Mock
}

func (m *MockLendingPositions) Insert(ctx context.Context, owner string, pos domain.LendingPosition) error {
	args := m.Called(ctx, owner, pos)
	return args.Error(0)
}

func (m *MockLendingPositions) ListByOwner(ctx context.Context, owner string) ([]domain.LendingPosition, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LendingPosition), args.Error(1)
}

func (m *MockLendingPositions) Update(ctx context.Context, owner string, pos domain.LendingPosition) error {
	args := m.Called(ctx, owner, pos)
	return args.Error(0)
}

// MockSwapHistory mocks the SwapHistoryStore interface
type MockSwapHistory struct {
	mock.Mock
}

func (m *MockSwapHistory) Insert(ctx context.Context, owner string, rec domain.SwapRecord) error {
	args := m.Called(ctx, owner, rec)
	return args.Error(0)
}

func (m *MockSwapHistory) ListByOwner(ctx context.Context, owner string) ([]domain.SwapRecord, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SwapRecord), args.Error(1)
}
