package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
	"github.com/ENuel20/sona-crypto-chat/internal/market"
)

var coinGeckoIDs = map[string]string{
	"SOL":   "solana",
	"USDC":  "usd-coin",
	"SONIC": "sonic-token",
}

// Service manages price alerts and evaluates them against live quotes.
type Service struct {
	store  domain.AlertStore
	prices *market.Client
}

// NewService creates an alert service.
func NewService(store domain.AlertStore, prices *market.Client) *Service {
	return &Service{store: store, prices: prices}
}

// Add creates an active alert for a wallet.
func (s *Service) Add(ctx context.Context, owner, token string, price float64, cond domain.AlertCondition) (domain.PriceAlert, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if _, ok := coinGeckoIDs[token]; !ok {
		return domain.PriceAlert{}, fmt.Errorf("unsupported token %q", token)
	}
	if price <= 0 {
		return domain.PriceAlert{}, fmt.Errorf("alert price must be positive")
	}
	if cond != domain.AlertAbove && cond != domain.AlertBelow {
		return domain.PriceAlert{}, fmt.Errorf("invalid alert condition %q", cond)
	}

	a := domain.PriceAlert{
		ID:        uuid.New(),
		Token:     token,
		Price:     price,
		Condition: cond,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, owner, a); err != nil {
		return domain.PriceAlert{}, fmt.Errorf("failed to save alert: %w", err)
	}
	return a, nil
}

// Remove deletes an alert.
func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	return s.store.Delete(ctx, owner, id)
}

// Toggle flips an alert's active state.
func (s *Service) Toggle(ctx context.Context, owner string, id uuid.UUID, active bool) error {
	return s.store.SetActive(ctx, owner, id, active)
}

// List returns all of a wallet's alerts.
func (s *Service) List(ctx context.Context, owner string) ([]domain.PriceAlert, error) {
	return s.store.ListByOwner(ctx, owner)
}

// Active returns only the wallet's active alerts.
func (s *Service) Active(ctx context.Context, owner string) []domain.PriceAlert {
	alerts, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Str("wallet", owner).Msg("failed to list alerts")
		return nil
	}
	active := alerts[:0:0]
	for _, a := range alerts {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}

// EvaluateTriggered checks active alerts against current prices and
// returns a notification line per crossed threshold. Triggered alerts
// are deactivated so they fire once.
func (s *Service) EvaluateTriggered(ctx context.Context, owner string) []string {
	active := s.Active(ctx, owner)
	if len(active) == 0 {
		return nil
	}

	ids := make([]string, 0, len(active))
	seen := map[string]bool{}
	for _, a := range active {
		id := coinGeckoIDs[a.Token]
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	quotes := s.prices.Prices(ctx, ids)

	var fired []string
	for _, a := range active {
		quote, ok := quotes[coinGeckoIDs[a.Token]]
		if !ok {
			continue
		}
		triggered := (a.Condition == domain.AlertAbove && quote.USD > a.Price) ||
			(a.Condition == domain.AlertBelow && quote.USD < a.Price)
		if !triggered {
			continue
		}
		fired = append(fired, fmt.Sprintf("%s is now %s $%g (current price: $%g)",
			a.Token, a.Condition, a.Price, quote.USD))
		if err := s.store.SetActive(ctx, owner, a.ID, false); err != nil {
			log.Warn().Err(err).Str("wallet", owner).Msg("failed to deactivate triggered alert")
		}
	}
	return fired
}
