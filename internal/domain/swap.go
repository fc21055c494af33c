package domain

import (
	"context"
	"time"
)

// SwapRoute is one quoted path for exchanging tokens.
type SwapRoute struct {
	ID           string  `json:"id"`
	InputToken   string  `json:"input_token"`
	OutputToken  string  `json:"output_token"`
	InputAmount  float64 `json:"input_amount"`
	OutputAmount float64 `json:"output_amount"`
	PriceImpact  float64 `json:"price_impact"`
	Fee          float64 `json:"fee"`
	Provider     string  `json:"provider"`
}

// SwapStatus is the settlement state of an executed swap.
type SwapStatus string

const (
	SwapCompleted SwapStatus = "completed"
	SwapPending   SwapStatus = "pending"
	SwapFailed    SwapStatus = "failed"
)

// SwapRecord is one executed swap kept in history.
type SwapRecord struct {
	ID           string     `json:"id"`
	InputToken   string     `json:"input_token"`
	OutputToken  string     `json:"output_token"`
	InputAmount  float64    `json:"input_amount"`
	OutputAmount float64    `json:"output_amount"`
	Timestamp    time.Time  `json:"timestamp"`
	Status       SwapStatus `json:"status"`
	TxHash       string     `json:"tx_hash,omitempty"`
}

// SwapHistoryStore persists executed swaps scoped by wallet.
type SwapHistoryStore interface {
	Insert(ctx context.Context, owner string, rec SwapRecord) error
	ListByOwner(ctx context.Context, owner string) ([]SwapRecord, error)
}
