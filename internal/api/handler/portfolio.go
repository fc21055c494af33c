package handler

import (
	"net/http"

	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/market"
	"github.com/ENuel20/sona-crypto-chat/internal/wallet"
)

// PortfolioHandler handles balance and price endpoints
type PortfolioHandler struct {
	balances *wallet.Service
	prices   *market.Client
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(balances *wallet.Service, prices *market.Client) *PortfolioHandler {
	return &PortfolioHandler{balances: balances, prices: prices}
}

// Get refreshes and returns the wallet's balance snapshot
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.balances.Refresh(r.Context(), addr); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"tokens":      h.balances.Snapshot(addr),
		"total_value": h.balances.TotalValue(addr),
		"summary":     h.balances.SummaryText(addr),
	})
}

// Prices returns current quotes for the tracked tokens
func (h *PortfolioHandler) Prices(w http.ResponseWriter, r *http.Request) {
	quotes := h.prices.Prices(r.Context(), []string{"solana", "usd-coin", "sonic-token"})
	response.OK(w, quotes)
}
