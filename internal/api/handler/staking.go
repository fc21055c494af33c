package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/defi"
)

// StakingHandler handles staking endpoints
type StakingHandler struct {
	staking *defi.StakingService
}

// NewStakingHandler creates a new staking handler
func NewStakingHandler(staking *defi.StakingService) *StakingHandler {
	return &StakingHandler{staking: staking}
}

// Pools lists staking pools, optionally filtered by token and sorted
// by APY
func (h *StakingHandler) Pools(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	response.OK(w, h.staking.RecommendedPools(token))
}

// Positions lists the wallet's staked positions
func (h *StakingHandler) Positions(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	positions, err := h.staking.Positions(r.Context(), addr)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, positions)
}

type stakeRequest struct {
	PoolID string  `json:"pool_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Stake opens a staking position
func (h *StakingHandler) Stake(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req stakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ok = h.staking.Stake(r.Context(), addr, req.PoolID, req.Amount)
	response.OK(w, map[string]bool{"success": ok})
}

type unstakeRequest struct {
	PositionID string `json:"position_id" validate:"required"`
}

// Unstake closes a staking position
func (h *StakingHandler) Unstake(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req unstakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ok = h.staking.Unstake(r.Context(), addr, req.PositionID)
	response.OK(w, map[string]bool{"success": ok})
}
