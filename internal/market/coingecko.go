package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
	redisrepo "github.com/ENuel20/sona-crypto-chat/internal/repository/redis"
)

// Client fetches token quotes from the CoinGecko markets endpoint,
// caching results in Redis. Feed failures fall back to a fixed quote
// table so the chat surface keeps working offline.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redisrepo.PriceCache
}

// NewClient creates a price feed client. cache may be nil.
func NewClient(baseURL string, cache *redisrepo.PriceCache) *Client {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
	}
}

// fallbackPrices mirrors the demo quotes used when the feed is down.
var fallbackPrices = map[string]domain.TokenPrice{
	"solana":      {USD: 150, Change24h: 2.5},
	"usd-coin":    {USD: 1, Change24h: 0},
	"sonic-token": {USD: 2.5, Change24h: 5.2},
}

type marketRow struct {
	ID                       string  `json:"id"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// Prices returns USD quotes for the given CoinGecko ids. It never
// fails: feed errors are logged and answered from the fallback table.
func (c *Client) Prices(ctx context.Context, ids []string) map[string]domain.TokenPrice {
	key := cacheKey(ids)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil && cached != nil {
			return cached
		}
	}

	prices, err := c.fetch(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("price feed unavailable, using fallback quotes")
		out := make(map[string]domain.TokenPrice, len(ids))
		for _, id := range ids {
			if p, ok := fallbackPrices[id]; ok {
				out[id] = p
			}
		}
		return out
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, prices); err != nil {
			log.Warn().Err(err).Msg("failed to cache prices")
		}
	}
	return prices
}

func (c *Client) fetch(ctx context.Context, ids []string) (map[string]domain.TokenPrice, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", strings.Join(ids, ","))
	params.Set("order", "market_cap_desc")
	params.Set("per_page", "100")
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var rows []marketRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode price feed response: %w", err)
	}

	prices := make(map[string]domain.TokenPrice, len(rows))
	for _, row := range rows {
		prices[row.ID] = domain.TokenPrice{
			USD:       row.CurrentPrice,
			Change24h: row.PriceChangePercentage24h,
		}
	}
	return prices, nil
}

func cacheKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
