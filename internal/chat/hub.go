package chat

import (
	"context"
	"sync"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// ResponderFactory builds the response pipeline bound to one wallet.
type ResponderFactory func(wallet string) Responder

// Hub hands out one Manager per wallet so every HTTP request for the
// same wallet shares the same in-memory conversation state.
type Hub struct {
	store        domain.ConversationStore
	cache        domain.ConversationCache
	newResponder ResponderFactory
	policy       LoadPolicy

	mu       sync.Mutex
	managers map[string]*hubEntry
}

type hubEntry struct {
	once sync.Once
	m    *Manager
}

// NewHub creates an empty hub.
func NewHub(store domain.ConversationStore, cache domain.ConversationCache, newResponder ResponderFactory) *Hub {
	return &Hub{
		store:        store,
		cache:        cache,
		newResponder: newResponder,
		managers:     make(map[string]*hubEntry),
	}
}

// SetLoadPolicy sets the reconciliation policy applied to managers
// created after the call. Call it once at wiring time, before requests
// arrive.
func (h *Hub) SetLoadPolicy(p LoadPolicy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.policy = p
}

// ForWallet returns the manager for a wallet, creating and initializing
// it on first use. Initialization runs exactly once even under
// concurrent first requests.
func (h *Hub) ForWallet(ctx context.Context, wallet string) *Manager {
	h.mu.Lock()
	e, ok := h.managers[wallet]
	if !ok {
		e = &hubEntry{m: NewManager(h.store, h.cache, h.newResponder(wallet))}
		e.m.SetLoadPolicy(h.policy)
		h.managers[wallet] = e
	}
	h.mu.Unlock()

	e.once.Do(func() {
		e.m.SetIdentity(ctx, wallet)
	})
	return e.m
}

// Disconnect drops the wallet's manager and clears its state. In-flight
// pipeline calls for the wallet are discarded by the manager's epoch
// check when they complete.
func (h *Hub) Disconnect(ctx context.Context, wallet string) {
	h.mu.Lock()
	e, ok := h.managers[wallet]
	delete(h.managers, wallet)
	h.mu.Unlock()

	if ok {
		e.m.SetIdentity(ctx, "")
	}
}
