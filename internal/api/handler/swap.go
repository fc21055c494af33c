package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/defi"
	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// SwapHandler handles swap endpoints
type SwapHandler struct {
	swap *defi.SwapService
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(swap *defi.SwapService) *SwapHandler {
	return &SwapHandler{swap: swap}
}

type quoteRequest struct {
	InputToken  string  `json:"input_token" validate:"required"`
	OutputToken string  `json:"output_token" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

// Quote returns candidate swap routes, best output first
func (h *SwapHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	routes, err := h.swap.Quote(req.InputToken, req.OutputToken, req.Amount)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, routes)
}

// Execute settles a quoted route
func (h *SwapHandler) Execute(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var route domain.SwapRoute
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	ok = h.swap.Execute(r.Context(), addr, route)
	response.OK(w, map[string]bool{"success": ok})
}

// History lists the wallet's executed swaps
func (h *SwapHandler) History(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	response.OK(w, h.swap.History(r.Context(), addr))
}
