package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AlertCondition is the direction a price alert fires in.
type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

// PriceAlert fires when a token crosses a price threshold.
type PriceAlert struct {
	ID        uuid.UUID      `json:"id"`
	Token     string         `json:"token"`
	Price     float64        `json:"price"`
	Condition AlertCondition `json:"condition"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
}

// AlertStore persists price alerts scoped by wallet.
type AlertStore interface {
	Insert(ctx context.Context, owner string, alert PriceAlert) error
	ListByOwner(ctx context.Context, owner string) ([]PriceAlert, error)
	SetActive(ctx context.Context, owner string, id uuid.UUID, active bool) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}
