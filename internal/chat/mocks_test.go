package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// MockConversationStore mocks the ConversationStore interface
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) ListByOwner(ctx context.Context, owner string) ([]domain.Conversation, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationStore) Upsert(ctx context.Context, owner string, conv domain.Conversation) error {
	args := m.Called(ctx, owner, conv)
	return args.Error(0)
}

func (m *MockConversationStore) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// MockConversationCache mocks the ConversationCache interface
type MockConversationCache struct {
	mock.Mock
}

func (m *MockConversationCache) Load(ctx context.Context, owner string) ([]domain.Conversation, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationCache) Save(ctx context.Context, owner string, convs []domain.Conversation) error {
	args := m.Called(ctx, owner, convs)
	return args.Error(0)
}

// stubResponder lets a test script the pipeline, including reentrant
// manager calls while a reply is in flight.
type stubResponder struct {
	fn func(ctx context.Context, utterance string, conv domain.Conversation) (string, error)
}

func (s *stubResponder) Respond(ctx context.Context, utterance string, conv domain.Conversation) (string, error) {
	if s.fn == nil {
		return "stub reply", nil
	}
	return s.fn(ctx, utterance, conv)
}
