package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// FallbackReply is appended as the assistant turn when the response
// pipeline fails. The underlying error is logged, never shown.
const FallbackReply = "I'm sorry, I encountered an error processing your request. Please try again."

// Responder produces an assistant reply for a user utterance, given the
// conversation as it stands after the user message was appended.
type Responder interface {
	Respond(ctx context.Context, utterance string, conv domain.Conversation) (string, error)
}

// LoadPolicy controls how SetIdentity reconciles the remote store and
// the local cache when both hold conversations for a wallet.
type LoadPolicy int

const (
	// LoadRemoteWins adopts the remote list whenever it is non-empty.
	// The local cache is only read when the remote store is empty or
	// unreachable.
	LoadRemoteWins LoadPolicy = iota

	// LoadNewestWins reads both sides and adopts whichever holds the
	// most recent LastUpdated, so a cache that outran a failed remote
	// write is not silently overwritten on reload.
	LoadNewestWins
)

// ParseLoadPolicy maps a config value to a LoadPolicy. Unknown values
// fall back to LoadRemoteWins.
func ParseLoadPolicy(s string) LoadPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "newest") {
		return LoadNewestWins
	}
	return LoadRemoteWins
}

// Manager owns the in-memory conversation state for one wallet and keeps
// it mirrored in the local cache and the remote store. All mutations go
// through the manager; the stores are passive backups.
//
// Persistence is dual-write and best-effort: the full conversation list
// always goes to the local cache, the current conversation is upserted
// remotely, and failures on either leg are logged and swallowed. On the
// next load the remote store wins unconditionally when it has data.
type Manager struct {
	store     domain.ConversationStore
	cache     domain.ConversationCache
	responder Responder
	policy    LoadPolicy

	mu            sync.Mutex
	identity      string
	epoch         uint64
	conversations []domain.Conversation
	currentID     uuid.UUID
	mode          domain.ChatMode
	processing    bool

	// pending holds conversations whose remote upsert failed. They are
	// retried on the next persistence cycle. Keyed by conversation id so
	// a later write supersedes the queued one.
	pending map[uuid.UUID]domain.Conversation
}

// NewManager creates a manager with no identity bound. Call SetIdentity
// before any conversation operation.
func NewManager(store domain.ConversationStore, cache domain.ConversationCache, responder Responder) *Manager {
	return &Manager{
		store:     store,
		cache:     cache,
		responder: responder,
		mode:      domain.ModeGeneral,
	}
}

// SetLoadPolicy changes how the next SetIdentity reconciles remote and
// cached conversations. The default is LoadRemoteWins.
func (m *Manager) SetLoadPolicy(p LoadPolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = p
}

// SetIdentity binds the manager to a wallet and loads its conversations:
// remote store first (under the default LoadRemoteWins policy a non-empty
// remote list wins outright), local cache as fallback, and a single fresh
// conversation when neither has usable data. An empty key disconnects and
// clears all state, including queued remote retries.
//
// The epoch counter is bumped on every transition so that loads and
// pipeline replies still in flight for the previous wallet are discarded
// instead of being written into the new wallet's state.
func (m *Manager) SetIdentity(ctx context.Context, key string) {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.identity = key
	m.conversations = nil
	m.currentID = uuid.Nil
	m.mode = domain.ModeGeneral
	m.processing = false
	m.pending = nil
	policy := m.policy
	m.mu.Unlock()

	if key == "" {
		return
	}

	remote, err := m.store.ListByOwner(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("wallet", key).Msg("remote conversation load failed, falling back to local cache")
	}

	if len(remote) > 0 && policy == LoadRemoteWins {
		// ListByOwner returns newest first; the head becomes current.
		m.adopt(epoch, key, remote, remote[0].ID, remote[0].Mode)
		return
	}

	cached, cerr := m.cache.Load(ctx, key)
	if cerr != nil {
		log.Warn().Err(cerr).Str("wallet", key).Msg("local conversation cache unusable")
	}

	if len(remote) > 0 {
		if policy == LoadNewestWins && len(cached) > 0 {
			if rc := mostRecent(cached); rc.LastUpdated.After(mostRecent(remote).LastUpdated) {
				m.adopt(epoch, key, cached, rc.ID, rc.Mode)
				return
			}
		}
		m.adopt(epoch, key, remote, remote[0].ID, remote[0].Mode)
		return
	}

	if len(cached) > 0 {
		cur := mostRecent(cached)
		m.adopt(epoch, key, cached, cur.ID, cur.Mode)
		return
	}

	fresh := domain.Conversation{
		ID:          uuid.New(),
		Name:        DefaultName,
		Mode:        domain.ModeGeneral,
		Messages:    []domain.Message{},
		LastUpdated: time.Now(),
	}
	if m.adopt(epoch, key, []domain.Conversation{fresh}, fresh.ID, fresh.Mode) {
		snap := fresh.Clone()
		m.persist(ctx, key, []domain.Conversation{fresh.Clone()}, &snap)
	}
}

// adopt installs loaded state if the identity has not changed since the
// load began.
func (m *Manager) adopt(epoch uint64, key string, convs []domain.Conversation, currentID uuid.UUID, mode domain.ChatMode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch || m.identity != key {
		log.Debug().Str("wallet", key).Msg("discarding conversation load for stale identity")
		return false
	}
	m.conversations = convs
	m.currentID = currentID
	m.mode = mode
	return true
}

// Identity returns the bound wallet address, empty when disconnected.
func (m *Manager) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Mode returns the active chat mode.
func (m *Manager) Mode() domain.ChatMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode changes the active mode. This is an explicit user action; it
// never changes the mode stored on existing conversations.
func (m *Manager) SetMode(mode domain.ChatMode) {
	if !domain.ValidMode(mode) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}

// Processing reports whether a pipeline call is in flight.
func (m *Manager) Processing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processing
}

// Conversations returns a deep copy of all conversations.
func (m *Manager) Conversations() []domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Current returns a copy of the current conversation, if any.
func (m *Manager) Current() (domain.Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.currentLocked()
	if cur == nil {
		return domain.Conversation{}, false
	}
	return *cur, true
}

// Create starts a new empty conversation in the given mode and makes it
// current.
func (m *Manager) Create(ctx context.Context, mode domain.ChatMode) domain.Conversation {
	if !domain.ValidMode(mode) {
		mode = domain.ModeGeneral
	}
	conv := domain.Conversation{
		ID:          uuid.New(),
		Name:        DefaultName,
		Mode:        mode,
		Messages:    []domain.Message{},
		LastUpdated: time.Now(),
	}

	m.mu.Lock()
	m.conversations = append(m.conversations, conv)
	m.currentID = conv.ID
	m.mode = mode
	identity := m.identity
	list := m.snapshotLocked()
	m.mu.Unlock()

	snap := conv.Clone()
	m.persist(ctx, identity, list, &snap)
	return conv.Clone()
}

// SwitchTo makes the conversation with the given id current. An unknown
// id is a no-op, not an error: the UI may hold a stale reference.
func (m *Manager) SwitchTo(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	m.currentID = id
	m.mode = m.conversations[idx].Mode
	return true
}

// Rename sets a conversation's name to the trimmed value. Empty names
// are ignored. Rename is metadata, not conversational activity, so
// LastUpdated is left alone and recency ordering does not change.
func (m *Manager) Rename(ctx context.Context, id uuid.UUID, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	conv := m.conversations[idx].Clone()
	conv.Name = name
	m.conversations[idx] = conv
	identity := m.identity
	list := m.snapshotLocked()
	cur := m.currentLocked()
	m.mu.Unlock()

	m.persist(ctx, identity, list, cur)
}

// Delete removes a conversation and best-effort deletes its remote
// record. When the current conversation is deleted, the first remaining
// one becomes current, or none if the list is empty.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) {
	m.mu.Lock()
	identity := m.identity
	delete(m.pending, id)
	if idx := m.indexOf(id); idx >= 0 {
		m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)
		if m.currentID == id {
			if len(m.conversations) > 0 {
				m.currentID = m.conversations[0].ID
				m.mode = m.conversations[0].Mode
			} else {
				m.currentID = uuid.Nil
			}
		}
	}
	list := m.snapshotLocked()
	cur := m.currentLocked()
	m.mu.Unlock()

	if identity == "" {
		return
	}
	if err := m.store.Delete(ctx, identity, id); err != nil {
		log.Error().Err(err).Str("wallet", identity).Str("conversation_id", id.String()).Msg("failed to delete remote conversation")
	}
	m.persist(ctx, identity, list, cur)
}

// AppendMessage appends a message to the current conversation. With no
// current conversation the content is dropped (a caller defect, not a
// user-facing error) and ok is false.
//
// A user message additionally invokes the response pipeline and appends
// its reply, or FallbackReply on failure, as an assistant message. The
// returned conversation reflects all appends from this call. System and
// assistant messages never trigger the pipeline.
func (m *Manager) AppendMessage(ctx context.Context, content string, role domain.MessageRole) (domain.Conversation, bool) {
	m.mu.Lock()
	idx := m.indexOf(m.currentID)
	if m.currentID == uuid.Nil || idx < 0 {
		m.mu.Unlock()
		log.Warn().Str("role", string(role)).Msg("message dropped: no current conversation")
		return domain.Conversation{}, false
	}

	now := time.Now()
	conv := m.conversations[idx].Clone()
	if len(conv.Messages) == 0 && role == domain.RoleUser {
		conv.Name = DeriveName(content)
	}
	conv.Messages = append(conv.Messages, domain.Message{
		ID:        uuid.New(),
		Content:   content,
		Role:      role,
		Timestamp: now,
	})
	conv.LastUpdated = now
	m.conversations[idx] = conv

	identity := m.identity
	epoch := m.epoch
	list := m.snapshotLocked()
	snap := conv.Clone()
	isUser := role == domain.RoleUser
	if isUser {
		m.processing = true
	}
	m.mu.Unlock()

	// Optimistic update: the message is visible and persisted before the
	// pipeline resolves.
	m.persist(ctx, identity, list, &snap)

	if !isUser {
		return snap, true
	}

	reply, err := m.responder.Respond(ctx, content, snap)
	if err != nil {
		log.Error().Err(err).Str("wallet", identity).Msg("response pipeline failed")
		reply = FallbackReply
	}

	m.mu.Lock()
	m.processing = false
	if m.epoch != epoch {
		m.mu.Unlock()
		log.Debug().Str("wallet", identity).Msg("discarding pipeline reply for stale identity")
		return snap, true
	}
	idx = m.indexOf(snap.ID)
	if idx < 0 {
		// Conversation was deleted while the pipeline ran.
		m.mu.Unlock()
		return snap, true
	}
	final := m.conversations[idx].Clone()
	final.Messages = append(final.Messages, domain.Message{
		ID:        uuid.New(),
		Content:   reply,
		Role:      domain.RoleAssistant,
		Timestamp: time.Now(),
	})
	final.LastUpdated = time.Now()
	m.conversations[idx] = final
	list = m.snapshotLocked()
	out := final.Clone()
	m.mu.Unlock()

	m.persist(ctx, identity, list, &out)
	return out, true
}

// persist runs the dual-write cycle: full list to the local cache, then
// queued remote retries, then the current conversation upserted remotely.
// All legs are best-effort; a failed upsert is queued and retried on the
// next cycle rather than dropped.
func (m *Manager) persist(ctx context.Context, identity string, list []domain.Conversation, current *domain.Conversation) {
	if identity == "" {
		return
	}
	if err := m.cache.Save(ctx, identity, list); err != nil {
		log.Error().Err(err).Str("wallet", identity).Msg("failed to save conversations to local cache")
	}

	for _, conv := range m.drainPending(identity) {
		if current != nil && conv.ID == current.ID {
			// Superseded by the write below.
			continue
		}
		if err := m.store.Upsert(ctx, identity, conv); err != nil {
			log.Error().Err(err).Str("wallet", identity).Str("conversation_id", conv.ID.String()).Msg("remote conversation retry failed, requeued")
			m.queuePending(identity, conv)
		}
	}

	if current != nil {
		if err := m.store.Upsert(ctx, identity, *current); err != nil {
			log.Error().Err(err).Str("wallet", identity).Str("conversation_id", current.ID.String()).Msg("failed to upsert remote conversation, queued for retry")
			m.queuePending(identity, *current)
		}
	}
}

// drainPending removes and returns the queued retries, provided the
// manager is still bound to the same wallet.
func (m *Manager) drainPending(identity string) []domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity != identity || len(m.pending) == 0 {
		return nil
	}
	out := make([]domain.Conversation, 0, len(m.pending))
	for _, c := range m.pending {
		out = append(out, c)
	}
	m.pending = nil
	return out
}

// queuePending records a failed remote upsert for retry. Writes that
// raced an identity switch are discarded.
func (m *Manager) queuePending(identity string, conv domain.Conversation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity != identity {
		return
	}
	if m.pending == nil {
		m.pending = make(map[uuid.UUID]domain.Conversation)
	}
	m.pending[conv.ID] = conv.Clone()
}

func mostRecent(convs []domain.Conversation) domain.Conversation {
	cur := convs[0]
	for _, c := range convs[1:] {
		if c.LastUpdated.After(cur.LastUpdated) {
			cur = c
		}
	}
	return cur
}

func (m *Manager) indexOf(id uuid.UUID) int {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshotLocked() []domain.Conversation {
	out := make([]domain.Conversation, len(m.conversations))
	for i := range m.conversations {
		out[i] = m.conversations[i].Clone()
	}
	return out
}

func (m *Manager) currentLocked() *domain.Conversation {
	idx := m.indexOf(m.currentID)
	if m.currentID == uuid.Nil || idx < 0 {
		return nil
	}
	c := m.conversations[idx].Clone()
	return &c
}
