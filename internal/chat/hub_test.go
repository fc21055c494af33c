package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

func newTestHub() (*Hub, *MockConversationStore, *MockConversationCache) {
	store := new(MockConversationStore)
	cache := new(MockConversationCache)
	store.On("ListByOwner", mock.Anything, mock.Anything).Return([]domain.Conversation{}, nil).Maybe()
	store.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Load", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	cache.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	hub := NewHub(store, cache, func(string) Responder { return &stubResponder{} })
	return hub, store, cache
}

func TestHub_ForWallet(t *testing.T) {
	ctx := context.Background()
	hub, _, _ := newTestHub()

	a := hub.ForWallet(ctx, testWallet)
	b := hub.ForWallet(ctx, testWallet)
	assert.Same(t, a, b)
	assert.Equal(t, testWallet, a.Identity())

	other := hub.ForWallet(ctx, "9yLMuh3DX98e08UYKTEqcE6kClifUrB94UaSvKptgBtV")
	assert.NotSame(t, a, other)
}

func TestHub_ForWallet_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	hub, store, _ := newTestHub()

	var wg sync.WaitGroup
	managers := make([]*Manager, 8)
	for i := range managers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			managers[i] = hub.ForWallet(ctx, testWallet)
		}(i)
	}
	wg.Wait()

	for _, m := range managers[1:] {
		assert.Same(t, managers[0], m)
	}
	// Initialization loads remote state exactly once.
	store.AssertNumberOfCalls(t, "ListByOwner", 1)
}

func TestHub_Disconnect(t *testing.T) {
	ctx := context.Background()
	hub, _, _ := newTestHub()

	m := hub.ForWallet(ctx, testWallet)
	hub.Disconnect(ctx, testWallet)
	assert.Empty(t, m.Identity())

	// The next request gets a fresh manager.
	again := hub.ForWallet(ctx, testWallet)
	assert.NotSame(t, m, again)
	assert.Equal(t, testWallet, again.Identity())
}
