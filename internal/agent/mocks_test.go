package agent

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
	"github.com/ENuel20/sona-crypto-chat/internal/llm"
)

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string {
	if m.name != "" {
		return m.name
	}
	return "mock"
}

func (m *MockProvider) AvailableModels() []string { return []string{"mock-model"} }

func (m *MockProvider) DefaultModel() string { return "mock-model" }

func (m *MockProvider) IsConfigured() bool { return true }

func (m *MockProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// MockBalances mocks the BalanceService interface
type MockBalances struct {
	mock.Mock
}

func (m *MockBalances) Refresh(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockBalances) SummaryText(owner string) string {
	args := m.Called(owner)
	return args.String(0)
}

func (m *MockBalances) Lookup(owner, symbol string) (domain.TokenSnapshot, bool) {
	args := m.Called(owner, symbol)
	return args.Get(0).(domain.TokenSnapshot), args.Bool(1)
}

// MockAlerts mocks the AlertReader interface
type MockAlerts struct {
	mock.Mock
}

func (m *MockAlerts) Active(ctx context.Context, owner string) []domain.PriceAlert {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.PriceAlert)
}

// MockStaking mocks the StakingReader interface
type MockStaking struct {
	mock.Mock
}

func (m *MockStaking) TotalStakedValue(ctx context.Context, owner string) float64 {
	args := m.Called(ctx, owner)
	return args.Get(0).(float64)
}

func (m *MockStaking) TotalRewards(ctx context.Context, owner string) float64 {
	args := m.Called(ctx, owner)
	return args.Get(0).(float64)
}

// MockLending mocks the LendingReader interface
type MockLending struct {
	mock.Mock
}

func (m *MockLending) TotalSupplied(ctx context.Context, owner string) float64 {
	args := m.Called(ctx, owner)
	return args.Get(0).(float64)
}

func (m *MockLending) TotalBorrowed(ctx context.Context, owner string) float64 {
	args := m.Called(ctx, owner)
	return args.Get(0).(float64)
}

// MockSwaps mocks the SwapReader interface
type MockSwaps struct {
	mock.Mock
}

func (m *MockSwaps) History(ctx context.Context, owner string) []domain.SwapRecord {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.SwapRecord)
}
