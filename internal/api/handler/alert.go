package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ENuel20/sona-crypto-chat/internal/alert"
	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// AlertHandler handles price alert endpoints
type AlertHandler struct {
	alerts *alert.Service
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts *alert.Service) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List returns the wallet's alerts
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	alerts, err := h.alerts.List(r.Context(), addr)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, alerts)
}

type createAlertRequest struct {
	Token     string  `json:"token" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	Condition string  `json:"condition" validate:"required,oneof=above below"`
}

// Create adds a price alert
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	a, err := h.alerts.Add(r.Context(), addr, req.Token, req.Price, domain.AlertCondition(req.Condition))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.Created(w, a)
}

type toggleAlertRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Toggle flips an alert's active state
func (h *AlertHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		response.BadRequest(w, "invalid alert ID")
		return
	}

	var req toggleAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.alerts.Toggle(r.Context(), addr, id, *req.Active); err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.NoContent(w)
}

// Delete removes an alert
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		response.BadRequest(w, "invalid alert ID")
		return
	}

	if err := h.alerts.Remove(r.Context(), addr, id); err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.NoContent(w)
}

// Triggered evaluates active alerts and returns crossed thresholds
func (h *AlertHandler) Triggered(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	response.OK(w, map[string]any{
		"notifications": h.alerts.EvaluateTriggered(r.Context(), addr),
	})
}
