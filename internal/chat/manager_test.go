package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func conv(name string, mode domain.ChatMode, updated time.Time) domain.Conversation {
	return domain.Conversation{
		ID:          uuid.New(),
		Name:        name,
		Mode:        mode,
		Messages:    []domain.Message{},
		LastUpdated: updated,
	}
}

// newTestManager wires a manager against permissive store and cache
// mocks so persistence calls never fail.
func newTestManager(responder Responder) (*Manager, *MockConversationStore, *MockConversationCache) {
	store := new(MockConversationStore)
	cache := new(MockConversationCache)
	store.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	store.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	if responder == nil {
		responder = &stubResponder{}
	}
	return NewManager(store, cache, responder), store, cache
}

func TestManager_SetIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("remote wins over local cache", func(t *testing.T) {
		m, store, cache := newTestManager(nil)

		now := time.Now()
		remote := []domain.Conversation{
			conv("Remote trading", domain.ModeTrading, now),
			conv("Remote old", domain.ModeGeneral, now.Add(-time.Hour)),
		}
		// The cached copy is fresher, but remote data is authoritative.
		cached := []domain.Conversation{conv("Cached", domain.ModeGeneral, now.Add(time.Hour))}

		store.On("ListByOwner", mock.Anything, testWallet).Return(remote, nil)
		cache.On("Load", mock.Anything, testWallet).Return(cached, nil).Maybe()

		m.SetIdentity(ctx, testWallet)

		got := m.Conversations()
		assert.Len(t, got, 2)
		assert.Equal(t, "Remote trading", got[0].Name)

		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, remote[0].ID, current.ID)
		assert.Equal(t, domain.ModeTrading, m.Mode())
		cache.AssertNotCalled(t, "Load", mock.Anything, testWallet)
	})

	t.Run("cache fallback selects most recent", func(t *testing.T) {
		m, store, cache := newTestManager(nil)

		now := time.Now()
		older := conv("Older", domain.ModeGeneral, now.Add(-time.Hour))
		newest := conv("Newest", domain.ModeStaking, now)
		store.On("ListByOwner", mock.Anything, testWallet).Return(nil, errors.New("connection refused"))
		cache.On("Load", mock.Anything, testWallet).Return([]domain.Conversation{older, newest}, nil)

		m.SetIdentity(ctx, testWallet)

		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, newest.ID, current.ID)
		assert.Equal(t, domain.ModeStaking, m.Mode())
	})

	t.Run("synthesizes a fresh conversation when both sides are empty", func(t *testing.T) {
		m, store, cache := newTestManager(nil)

		store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.Conversation{}, nil)
		cache.On("Load", mock.Anything, testWallet).Return(nil, nil)

		m.SetIdentity(ctx, testWallet)

		got := m.Conversations()
		assert.Len(t, got, 1)
		assert.Equal(t, DefaultName, got[0].Name)
		assert.Equal(t, domain.ModeGeneral, got[0].Mode)
		assert.Empty(t, got[0].Messages)

		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, got[0].ID, current.ID)

		// The synthesized conversation is persisted on both legs.
		store.AssertCalled(t, "Upsert", mock.Anything, testWallet, mock.Anything)
		cache.AssertCalled(t, "Save", mock.Anything, testWallet, mock.Anything)
	})

	t.Run("empty key disconnects and clears state", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		store.On("ListByOwner", mock.Anything, testWallet).Return([]domain.Conversation{}, nil)
		cache.On("Load", mock.Anything, testWallet).Return(nil, nil)

		m.SetIdentity(ctx, testWallet)
		m.SetMode(domain.ModeLending)
		m.SetIdentity(ctx, "")

		assert.Empty(t, m.Identity())
		assert.Empty(t, m.Conversations())
		assert.Equal(t, domain.ModeGeneral, m.Mode())
		_, ok := m.Current()
		assert.False(t, ok)
	})
}

func TestManager_NewestWinsLoadPolicy(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("fresher cache beats remote", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		m.SetLoadPolicy(LoadNewestWins)

		remote := []domain.Conversation{conv("Remote", domain.ModeTrading, now.Add(-time.Hour))}
		cachedNew := conv("Cached new", domain.ModeStaking, now)
		cachedOld := conv("Cached old", domain.ModeGeneral, now.Add(-2*time.Hour))
		store.On("ListByOwner", mock.Anything, testWallet).Return(remote, nil)
		cache.On("Load", mock.Anything, testWallet).Return([]domain.Conversation{cachedOld, cachedNew}, nil)

		m.SetIdentity(ctx, testWallet)

		got := m.Conversations()
		assert.Len(t, got, 2)
		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, cachedNew.ID, current.ID)
		assert.Equal(t, domain.ModeStaking, m.Mode())
	})

	t.Run("fresher remote still wins", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		m.SetLoadPolicy(LoadNewestWins)

		remote := []domain.Conversation{conv("Remote", domain.ModeTrading, now)}
		cached := []domain.Conversation{conv("Cached", domain.ModeStaking, now.Add(-time.Hour))}
		store.On("ListByOwner", mock.Anything, testWallet).Return(remote, nil)
		cache.On("Load", mock.Anything, testWallet).Return(cached, nil)

		m.SetIdentity(ctx, testWallet)

		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, remote[0].ID, current.ID)
		assert.Equal(t, domain.ModeTrading, m.Mode())
	})
}

func TestParseLoadPolicy(t *testing.T) {
	assert.Equal(t, LoadRemoteWins, ParseLoadPolicy("remote"))
	assert.Equal(t, LoadRemoteWins, ParseLoadPolicy(""))
	assert.Equal(t, LoadRemoteWins, ParseLoadPolicy("bogus"))
	assert.Equal(t, LoadNewestWins, ParseLoadPolicy("newest"))
	assert.Equal(t, LoadNewestWins, ParseLoadPolicy(" Newest "))
}

func TestManager_RemoteRetryQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("failed upsert retried on next cycle", func(t *testing.T) {
		store := new(MockConversationStore)
		cache := new(MockConversationCache)
		cache.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		m := NewManager(store, cache, &stubResponder{})

		store.On("ListByOwner", mock.Anything, testWallet).Return(nil, nil)
		cache.On("Load", mock.Anything, testWallet).Return(nil, nil)
		// The synthesized conversation fails to reach the remote store.
		store.On("Upsert", mock.Anything, testWallet, mock.Anything).Return(errors.New("connection refused")).Once()
		m.SetIdentity(ctx, testWallet)

		synthesized, ok := m.Current()
		assert.True(t, ok)

		// The next mutation writes the new conversation and replays the
		// queued one.
		store.On("Upsert", mock.Anything, testWallet, mock.MatchedBy(func(c domain.Conversation) bool {
			return c.ID == synthesized.ID
		})).Return(nil).Once()
		store.On("Upsert", mock.Anything, testWallet, mock.MatchedBy(func(c domain.Conversation) bool {
			return c.ID != synthesized.ID
		})).Return(nil).Once()

		m.Create(ctx, domain.ModeTrading)
		store.AssertExpectations(t)
	})

	t.Run("retry superseded by a newer write of the same conversation", func(t *testing.T) {
		store := new(MockConversationStore)
		cache := new(MockConversationCache)
		cache.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		m := NewManager(store, cache, &stubResponder{})

		store.On("ListByOwner", mock.Anything, testWallet).Return(nil, nil)
		cache.On("Load", mock.Anything, testWallet).Return(nil, nil)
		store.On("Upsert", mock.Anything, testWallet, mock.Anything).Return(errors.New("connection refused")).Once()
		m.SetIdentity(ctx, testWallet)

		// AppendMessage persists twice (user turn, then assistant turn);
		// both target the same conversation, so the queued copy is
		// superseded rather than replayed.
		store.On("Upsert", mock.Anything, testWallet, mock.Anything).Return(nil).Twice()

		_, ok := m.AppendMessage(ctx, "hello there", domain.RoleUser)
		assert.True(t, ok)
		store.AssertExpectations(t)
	})

	t.Run("queue cleared on identity switch", func(t *testing.T) {
		store := new(MockConversationStore)
		cache := new(MockConversationCache)
		cache.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		m := NewManager(store, cache, &stubResponder{})

		store.On("ListByOwner", mock.Anything, testWallet).Return(nil, nil)
		cache.On("Load", mock.Anything, testWallet).Return(nil, nil)
		store.On("Upsert", mock.Anything, testWallet, mock.Anything).Return(errors.New("connection refused")).Once()
		m.SetIdentity(ctx, testWallet)

		// Reconnecting as another wallet must not replay the old wallet's
		// queued write.
		other := "9yLMuh3DX98e08UYKTEqcE6kClifUrB94UaSvKptgBtV"
		store.On("ListByOwner", mock.Anything, other).Return(nil, nil)
		cache.On("Load", mock.Anything, other).Return(nil, nil)
		store.On("Upsert", mock.Anything, other, mock.Anything).Return(nil).Once()
		m.SetIdentity(ctx, other)

		// A replay for the old wallet would hit the mock with no matching
		// expectation and fail the test.
		store.AssertExpectations(t)
	})
}

func setupLoaded(t *testing.T, m *Manager, store *MockConversationStore, cache *MockConversationCache, convs []domain.Conversation) {
	t.Helper()
	store.On("ListByOwner", mock.Anything, testWallet).Return(convs, nil).Once()
	cache.On("Load", mock.Anything, testWallet).Return(nil, nil).Maybe()
	m.SetIdentity(context.Background(), testWallet)
}

func TestManager_Create(t *testing.T) {
	m, store, cache := newTestManager(nil)
	setupLoaded(t, m, store, cache, []domain.Conversation{conv("First", domain.ModeGeneral, time.Now())})

	created := m.Create(context.Background(), domain.ModeTrading)

	assert.Equal(t, DefaultName, created.Name)
	assert.Equal(t, domain.ModeTrading, created.Mode)
	assert.Len(t, m.Conversations(), 2)
	assert.Equal(t, domain.ModeTrading, m.Mode())

	current, ok := m.Current()
	assert.True(t, ok)
	assert.Equal(t, created.ID, current.ID)
}

func TestManager_SwitchTo(t *testing.T) {
	m, store, cache := newTestManager(nil)
	now := time.Now()
	a := conv("A", domain.ModeGeneral, now)
	b := conv("B", domain.ModeMarket, now.Add(-time.Minute))
	setupLoaded(t, m, store, cache, []domain.Conversation{a, b})

	t.Run("known id switches and adopts mode", func(t *testing.T) {
		assert.True(t, m.SwitchTo(b.ID))
		current, _ := m.Current()
		assert.Equal(t, b.ID, current.ID)
		assert.Equal(t, domain.ModeMarket, m.Mode())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		assert.False(t, m.SwitchTo(uuid.New()))
		current, _ := m.Current()
		assert.Equal(t, b.ID, current.ID)
	})

	t.Run("switching to the current conversation is idempotent", func(t *testing.T) {
		assert.True(t, m.SwitchTo(b.ID))
		current, _ := m.Current()
		assert.Equal(t, b.ID, current.ID)
	})
}

func TestManager_Rename(t *testing.T) {
	ctx := context.Background()
	m, store, cache := newTestManager(nil)
	updated := time.Now().Add(-time.Hour)
	c := conv("Old name", domain.ModeGeneral, updated)
	setupLoaded(t, m, store, cache, []domain.Conversation{c})

	t.Run("trims and applies", func(t *testing.T) {
		m.Rename(ctx, c.ID, "  Portfolio review  ")
		got := m.Conversations()[0]
		assert.Equal(t, "Portfolio review", got.Name)
		// Rename is metadata only, recency is untouched.
		assert.Equal(t, updated.Unix(), got.LastUpdated.Unix())
	})

	t.Run("blank name is ignored", func(t *testing.T) {
		m.Rename(ctx, c.ID, "   ")
		assert.Equal(t, "Portfolio review", m.Conversations()[0].Name)
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		m.Rename(ctx, uuid.New(), "Elsewhere")
		assert.Equal(t, "Portfolio review", m.Conversations()[0].Name)
	})
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting current promotes the first remaining", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		now := time.Now()
		a := conv("A", domain.ModeTrading, now)
		b := conv("B", domain.ModeGeneral, now.Add(-time.Minute))
		setupLoaded(t, m, store, cache, []domain.Conversation{a, b})

		m.Delete(ctx, a.ID)

		assert.Len(t, m.Conversations(), 1)
		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, b.ID, current.ID)
		store.AssertCalled(t, "Delete", mock.Anything, testWallet, a.ID)
	})

	t.Run("deleting a non-current conversation keeps the selection", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		now := time.Now()
		a := conv("A", domain.ModeGeneral, now)
		b := conv("B", domain.ModeGeneral, now.Add(-time.Minute))
		setupLoaded(t, m, store, cache, []domain.Conversation{a, b})

		m.Delete(ctx, b.ID)

		current, ok := m.Current()
		assert.True(t, ok)
		assert.Equal(t, a.ID, current.ID)
	})

	t.Run("deleting the last conversation leaves none current", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		a := conv("Only", domain.ModeGeneral, time.Now())
		setupLoaded(t, m, store, cache, []domain.Conversation{a})

		m.Delete(ctx, a.ID)

		assert.Empty(t, m.Conversations())
		_, ok := m.Current()
		assert.False(t, ok)
	})
}

func TestManager_AppendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("drops content with no current conversation", func(t *testing.T) {
		m, _, _ := newTestManager(nil)
		_, ok := m.AppendMessage(ctx, "hello", domain.RoleUser)
		assert.False(t, ok)
	})

	t.Run("user message gets an assistant reply and names the conversation", func(t *testing.T) {
		responder := &stubResponder{fn: func(_ context.Context, utterance string, conv domain.Conversation) (string, error) {
			assert.Equal(t, "What is my SOL balance", utterance)
			assert.Len(t, conv.Messages, 1)
			return "Your SOL balance is 2.5 SOL.", nil
		}}
		m, store, cache := newTestManager(responder)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv(DefaultName, domain.ModeGeneral, time.Now())})

		got, ok := m.AppendMessage(ctx, "What is my SOL balance", domain.RoleUser)
		assert.True(t, ok)
		assert.Len(t, got.Messages, 2)
		assert.Equal(t, domain.RoleUser, got.Messages[0].Role)
		assert.Equal(t, domain.RoleAssistant, got.Messages[1].Role)
		assert.Equal(t, "Your SOL balance is 2.5 SOL.", got.Messages[1].Content)
		assert.Equal(t, "What is my SOL balance", got.Name)
		assert.False(t, m.Processing())
	})

	t.Run("second user message keeps the derived name", func(t *testing.T) {
		m, store, cache := newTestManager(nil)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv(DefaultName, domain.ModeGeneral, time.Now())})

		m.AppendMessage(ctx, "first question", domain.RoleUser)
		got, ok := m.AppendMessage(ctx, "second question", domain.RoleUser)
		assert.True(t, ok)
		assert.Equal(t, "first question", got.Name)
		assert.Len(t, got.Messages, 4)
	})

	t.Run("pipeline failure appends the fallback apology", func(t *testing.T) {
		responder := &stubResponder{fn: func(context.Context, string, domain.Conversation) (string, error) {
			return "", errors.New("provider unavailable")
		}}
		m, store, cache := newTestManager(responder)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv(DefaultName, domain.ModeGeneral, time.Now())})

		got, ok := m.AppendMessage(ctx, "hello", domain.RoleUser)
		assert.True(t, ok)
		assert.Len(t, got.Messages, 2)
		assert.Equal(t, FallbackReply, got.Messages[1].Content)
	})

	t.Run("assistant and system messages skip the pipeline", func(t *testing.T) {
		called := false
		responder := &stubResponder{fn: func(context.Context, string, domain.Conversation) (string, error) {
			called = true
			return "", nil
		}}
		m, store, cache := newTestManager(responder)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv("Notes", domain.ModeGeneral, time.Now())})

		got, ok := m.AppendMessage(ctx, "connected", domain.RoleSystem)
		assert.True(t, ok)
		assert.Len(t, got.Messages, 1)
		assert.False(t, called)
		// System messages never rename.
		assert.Equal(t, "Notes", got.Name)
	})

	t.Run("reply is dropped when the conversation is deleted mid-flight", func(t *testing.T) {
		var m *Manager
		responder := &stubResponder{fn: func(_ context.Context, _ string, conv domain.Conversation) (string, error) {
			m.Delete(context.Background(), conv.ID)
			return "too late", nil
		}}
		var store *MockConversationStore
		var cache *MockConversationCache
		m, store, cache = newTestManager(responder)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv(DefaultName, domain.ModeGeneral, time.Now())})

		_, ok := m.AppendMessage(ctx, "hello", domain.RoleUser)
		assert.True(t, ok)
		assert.Empty(t, m.Conversations())
	})

	t.Run("reply is discarded after an identity switch", func(t *testing.T) {
		const otherWallet = "9yLMuh3DX98e08UYKTEqcE6kClifUrB94UaSvKptgBtV"

		var m *Manager
		var store *MockConversationStore
		var cache *MockConversationCache
		responder := &stubResponder{fn: func(context.Context, string, domain.Conversation) (string, error) {
			m.SetIdentity(context.Background(), otherWallet)
			return "stale reply", nil
		}}
		m, store, cache = newTestManager(responder)
		setupLoaded(t, m, store, cache, []domain.Conversation{conv(DefaultName, domain.ModeGeneral, time.Now())})
		store.On("ListByOwner", mock.Anything, otherWallet).Return([]domain.Conversation{}, nil)
		cache.On("Load", mock.Anything, otherWallet).Return(nil, nil)

		m.AppendMessage(ctx, "hello", domain.RoleUser)

		// The new wallet's synthesized conversation must not receive the
		// stale assistant reply.
		got := m.Conversations()
		assert.Len(t, got, 1)
		assert.Empty(t, got[0].Messages)
		assert.Equal(t, otherWallet, m.Identity())
	})
}
