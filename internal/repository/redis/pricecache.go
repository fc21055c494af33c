package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

const priceCachePrefix = "prices:"

// PriceCache keeps recent token quotes in Redis so repeated chat
// messages do not hammer the price feed.
type PriceCache struct {
	client *Client
	ttl    time.Duration
}

// NewPriceCache creates a new price cache
func NewPriceCache(client *Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PriceCache{client: client, ttl: ttl}
}

// Get retrieves cached prices for a set key. A miss returns nil, nil.
func (c *PriceCache) Get(ctx context.Context, key string) (map[string]domain.TokenPrice, error) {
	data, err := c.client.rdb.Get(ctx, priceCachePrefix+key).Bytes()
	if err != nil {
		return nil, nil // cache miss
	}

	var prices map[string]domain.TokenPrice
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached prices: %w", err)
	}
	return prices, nil
}

// Set caches prices under the set key with the configured TTL.
func (c *PriceCache) Set(ctx context.Context, key string, prices map[string]domain.TokenPrice) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("failed to marshal prices: %w", err)
	}
	return c.client.rdb.Set(ctx, priceCachePrefix+key, data, c.ttl).Err()
}
