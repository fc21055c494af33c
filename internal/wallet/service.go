package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
	"github.com/ENuel20/sona-crypto-chat/internal/market"
)

// Tracked tokens. Balances outside this set are ignored.
var trackedTokens = []struct {
	Symbol      string
	Name        string
	Mint        string
	CoinGeckoID string
}{
	{Symbol: "SOL", Name: "Solana", Mint: "", CoinGeckoID: "solana"},
	{Symbol: "USDC", Name: "USD Coin", Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", CoinGeckoID: "usd-coin"},
	{Symbol: "SONIC", Name: "Sonic", Mint: "SonicxvLud67EceaEzCLRnMTBqzYUUYNr93DBkBdDES", CoinGeckoID: "sonic-token"},
}

// Demo balances used when the RPC node has no token accounts for the
// wallet, so the assistant always has a portfolio to talk about.
var demoBalances = map[string]float64{
	"USDC":  100,
	"SONIC": 500,
}

// Service maintains a per-wallet balance snapshot refreshed on demand
// from the Solana RPC node and the price feed.
type Service struct {
	rpc    *RPCClient
	prices *market.Client
	users  domain.UserStore

	mu        sync.RWMutex
	snapshots map[string][]domain.TokenSnapshot
}

// NewService creates a balance service. users may be nil.
func NewService(rpc *RPCClient, prices *market.Client, users domain.UserStore) *Service {
	return &Service{
		rpc:       rpc,
		prices:    prices,
		users:     users,
		snapshots: make(map[string][]domain.TokenSnapshot),
	}
}

// Refresh fetches on-chain balances and quotes for a wallet and stores
// the snapshot. RPC failures for individual tokens degrade to zero
// balances; a wallet with no holdings gets the demo balances.
func (s *Service) Refresh(ctx context.Context, owner string) error {
	if owner == "" {
		return fmt.Errorf("wallet address is required")
	}

	ids := make([]string, 0, len(trackedTokens))
	for _, t := range trackedTokens {
		ids = append(ids, t.CoinGeckoID)
	}
	quotes := s.prices.Prices(ctx, ids)

	solBalance, err := s.rpc.SOLBalance(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Str("wallet", owner).Msg("failed to fetch SOL balance")
	}

	splBalances := map[string]float64{}
	tokens, err := s.rpc.TokenBalances(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Str("wallet", owner).Msg("failed to fetch token balances")
	}
	for _, t := range tokens {
		splBalances[t.Mint] = t.Amount
	}

	snapshot := make([]domain.TokenSnapshot, 0, len(trackedTokens))
	anyHeld := solBalance > 0
	for _, t := range trackedTokens {
		balance := solBalance
		if t.Mint != "" {
			balance = splBalances[t.Mint]
		}
		if balance > 0 {
			anyHeld = true
		}
		quote := quotes[t.CoinGeckoID]
		snapshot = append(snapshot, domain.TokenSnapshot{
			Symbol:    t.Symbol,
			Name:      t.Name,
			Mint:      t.Mint,
			Balance:   balance,
			Price:     quote.USD,
			Value:     balance * quote.USD,
			Change24h: quote.Change24h,
		})
	}

	if !anyHeld {
		for i := range snapshot {
			if demo, ok := demoBalances[snapshot[i].Symbol]; ok {
				snapshot[i].Balance = demo
				snapshot[i].Value = demo * snapshot[i].Price
			}
		}
	}

	s.mu.Lock()
	s.snapshots[owner] = snapshot
	s.mu.Unlock()

	if s.users != nil {
		user := domain.WalletUser{
			WalletAddress: owner,
			LastBalance:   s.TotalValue(owner),
			LastSeen:      time.Now().UTC(),
		}
		if err := s.users.Upsert(ctx, user); err != nil {
			log.Warn().Err(err).Str("wallet", owner).Msg("failed to record wallet user")
		}
	}
	return nil
}

// Snapshot returns the last refreshed balances for a wallet.
func (s *Service) Snapshot(owner string) []domain.TokenSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.snapshots[owner]
	out := make([]domain.TokenSnapshot, len(snapshot))
	copy(out, snapshot)
	return out
}

// Lookup returns one token's snapshot entry by symbol.
func (s *Service) Lookup(owner, symbol string) (domain.TokenSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.snapshots[owner] {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return domain.TokenSnapshot{}, false
}

// TotalValue returns the USD value of the wallet's snapshot.
func (s *Service) TotalValue(owner string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, t := range s.snapshots[owner] {
		total += t.Value
	}
	return total
}

// SummaryText renders the snapshot as a sentence for the assistant to
// fold into its replies.
func (s *Service) SummaryText(owner string) string {
	snapshot := s.Snapshot(owner)
	if len(snapshot) == 0 {
		return "I don't have your balance information yet. Please try again in a moment."
	}

	var total float64
	parts := make([]string, 0, len(snapshot))
	for _, t := range snapshot {
		total += t.Value
		parts = append(parts, fmt.Sprintf("%.4f %s ($%.2f)", t.Balance, t.Symbol, t.Value))
	}
	return fmt.Sprintf("Your total balance is $%.2f. Here's a breakdown of your tokens: %s.",
		total, strings.Join(parts, ", "))
}
