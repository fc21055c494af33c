package alert

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// MockAlertStore mocks the AlertStore interface
type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) Insert(ctx context.Context, owner string, alert domain.PriceAlert) error {
	args := m.Called(ctx, owner, alert)
	return args.Error(0)
}

func (m *MockAlertStore) ListByOwner(ctx context.Context, owner string) ([]domain.PriceAlert, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceAlert), args.Error(1)
}

func (m *MockAlertStore) SetActive(ctx context.Context, owner string, id uuid.UUID, active bool) error {
	args := m.Called(ctx, owner, id, active)
	return args.Error(0)
}

func (m *MockAlertStore) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
