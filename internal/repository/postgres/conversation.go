package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// ConversationRepository implements domain.ConversationStore against the
// conversations table. Messages are stored as one serialized JSON column
// per conversation; the row is replaced wholesale on every upsert.
type ConversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

// ListByOwner returns a wallet's conversations newest first.
func (r *ConversationRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Conversation, error) {
	query := `
		SELECT id, name, mode, messages, last_updated
		FROM conversations
		WHERE owner = $1
		ORDER BY last_updated DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		var modeStr string
		var messagesJSON []byte
		if err := rows.Scan(&c.ID, &c.Name, &modeStr, &messagesJSON, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		c.Mode = domain.ChatMode(modeStr)
		if err := json.Unmarshal(messagesJSON, &c.Messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages for conversation %s: %w", c.ID, err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// Upsert replaces the conversation row on matching id. Later writes win
// regardless of arrival order.
func (r *ConversationRepository) Upsert(ctx context.Context, owner string, conv domain.Conversation) error {
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `
		INSERT INTO conversations (id, owner, name, mode, messages, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    mode = EXCLUDED.mode,
		    messages = EXCLUDED.messages,
		    last_updated = EXCLUDED.last_updated
	`
	_, err = r.pool.Exec(ctx, query,
		conv.ID,
		owner,
		conv.Name,
		string(conv.Mode),
		messagesJSON,
		conv.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

// Delete removes a conversation scoped by id and owner.
func (r *ConversationRepository) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	query := `DELETE FROM conversations WHERE id = $1 AND owner = $2`
	_, err := r.pool.Exec(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
