package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/repository/redis"
)

type contextKey string

const WalletAddressKey contextKey = "walletAddress"

// WalletHeader carries the caller's wallet address. It is the identity
// key for every conversation and position.
const WalletHeader = "X-Wallet-Address"

// WalletIdentity extracts the wallet address header and adds it to the
// request context. Requests without a plausible address are rejected.
func WalletIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.Header.Get(WalletHeader)
		if addr == "" {
			response.Unauthorized(w, "missing wallet address header")
			return
		}
		if !plausibleAddress(addr) {
			response.BadRequest(w, "invalid wallet address")
			return
		}

		ctx := context.WithValue(r.Context(), WalletAddressKey, addr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetWalletAddress gets the wallet address from context.
func GetWalletAddress(ctx context.Context) (string, bool) {
	addr, ok := ctx.Value(WalletAddressKey).(string)
	return addr, ok
}

// plausibleAddress does a shape check on a base58 Solana address.
func plausibleAddress(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	for _, r := range addr {
		switch {
		case r >= '1' && r <= '9':
		case r >= 'A' && r <= 'H':
		case r >= 'J' && r <= 'N':
		case r >= 'P' && r <= 'Z':
		case r >= 'a' && r <= 'k':
		case r >= 'm' && r <= 'z':
		default:
			return false
		}
	}
	return true
}

// RateLimitMiddleware handles rate limiting keyed by wallet address.
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on the wallet address
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, ok := GetWalletAddress(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), addr)
		if err != nil {
			// If the rate limiter fails, allow the request
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format("2006-01-02T15:04:05Z"))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
