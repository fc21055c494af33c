package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatMode steers which peer subsystem the response pipeline weights
// when composing a reply.
type ChatMode string

const (
	ModeGeneral ChatMode = "general"
	ModeTrading ChatMode = "trading"
	ModeStaking ChatMode = "staking"
	ModeLending ChatMode = "lending"
	ModeMarket  ChatMode = "market"
)

// ValidMode reports whether m is one of the known chat modes.
func ValidMode(m ChatMode) bool {
	switch m {
	case ModeGeneral, ModeTrading, ModeStaking, ModeLending, ModeMarket:
		return true
	}
	return false
}

// MessageRole identifies the author of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a single chat line. Messages are immutable once appended.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	Content   string      `json:"content"`
	Role      MessageRole `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
}

// Conversation is one named thread of messages belonging to a wallet.
// Messages are append-only and kept in chronological order.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Mode        ChatMode  `json:"mode"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"last_updated"`
}

// Clone returns a deep copy so callers cannot mutate manager-owned state.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// ConversationStore is the remote, authoritative conversation backup.
// Writes are best-effort; a failed write is logged by the caller and the
// in-memory state stays ahead until the next successful persist.
type ConversationStore interface {
	ListByOwner(ctx context.Context, owner string) ([]Conversation, error)
	Upsert(ctx context.Context, owner string, conv Conversation) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// ConversationCache is the local durable mirror, one record per wallet
// holding the full serialized conversation list.
type ConversationCache interface {
	Load(ctx context.Context, owner string) ([]Conversation, error)
	Save(ctx context.Context, owner string, convs []Conversation) error
}
