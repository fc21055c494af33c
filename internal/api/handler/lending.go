package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/defi"
)

// LendingHandler handles lending endpoints
type LendingHandler struct {
	lending *defi.LendingService
}

// NewLendingHandler creates a new lending handler
func NewLendingHandler(lending *defi.LendingService) *LendingHandler {
	return &LendingHandler{lending: lending}
}

// Pools lists lending markets
func (h *LendingHandler) Pools(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.lending.Pools())
}

// Positions lists the wallet's lending positions
func (h *LendingHandler) Positions(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	positions, err := h.lending.Positions(r.Context(), addr)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, positions)
}

type lendingOpenRequest struct {
	PoolID string  `json:"pool_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type lendingCloseRequest struct {
	PositionID string `json:"position_id" validate:"required"`
}

func (h *LendingHandler) open(w http.ResponseWriter, r *http.Request, action func(poolID string, amount float64) bool) {
	var req lendingOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, map[string]bool{"success": action(req.PoolID, req.Amount)})
}

func (h *LendingHandler) close(w http.ResponseWriter, r *http.Request, action func(positionID string) bool) {
	var req lendingCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, map[string]bool{"success": action(req.PositionID)})
}

// Supply deposits into a market
func (h *LendingHandler) Supply(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.open(w, r, func(poolID string, amount float64) bool {
		return h.lending.Supply(r.Context(), addr, poolID, amount)
	})
}

// Borrow takes a loan from a market
func (h *LendingHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.open(w, r, func(poolID string, amount float64) bool {
		return h.lending.Borrow(r.Context(), addr, poolID, amount)
	})
}

// Withdraw closes a supply position
func (h *LendingHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.close(w, r, func(positionID string) bool {
		return h.lending.Withdraw(r.Context(), addr, positionID)
	})
}

// Repay closes a borrow position
func (h *LendingHandler) Repay(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.close(w, r, func(positionID string) bool {
		return h.lending.Repay(r.Context(), addr, positionID)
	})
}
