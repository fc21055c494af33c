package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// Cache implements domain.ConversationCache on an embedded SQLite file.
// One row per wallet holding the full serialized conversation list, so
// the mirror survives without the remote store or the network.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS conversation_cache (
	owner    TEXT PRIMARY KEY,
	payload  BLOB NOT NULL,
	saved_at TIMESTAMP NOT NULL
);
`

// Open creates or opens the cache file, creating parent directories as
// needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Load returns the cached conversation list for a wallet. A missing row
// yields an empty list; a corrupt payload is an error so the caller can
// fall through to synthesizing fresh state.
func (c *Cache) Load(ctx context.Context, owner string) ([]domain.Conversation, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM conversation_cache WHERE owner = ?`, owner,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache row: %w", err)
	}

	var convs []domain.Conversation
	if err := json.Unmarshal(payload, &convs); err != nil {
		return nil, fmt.Errorf("corrupt cache payload: %w", err)
	}
	return convs, nil
}

// Save replaces the wallet's cached conversation list.
func (c *Cache) Save(ctx context.Context, owner string, convs []domain.Conversation) error {
	payload, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO conversation_cache (owner, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner) DO UPDATE
		SET payload = excluded.payload, saved_at = excluded.saved_at
	`, owner, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write cache row: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}
