package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/api/response"
	"github.com/ENuel20/sona-crypto-chat/internal/chat"
	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	hub *chat.Hub
}

// NewChatHandler creates a new chat handler
func NewChatHandler(hub *chat.Hub) *ChatHandler {
	return &ChatHandler{hub: hub}
}

func (h *ChatHandler) manager(w http.ResponseWriter, r *http.Request) (*chat.Manager, bool) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return nil, false
	}
	return h.hub.ForWallet(r.Context(), addr), true
}

type chatState struct {
	Conversations []domain.Conversation `json:"conversations"`
	CurrentID     *uuid.UUID            `json:"current_id,omitempty"`
	Mode          domain.ChatMode       `json:"mode"`
	Processing    bool                  `json:"processing"`
}

func stateOf(m *chat.Manager) chatState {
	state := chatState{
		Conversations: m.Conversations(),
		Mode:          m.Mode(),
		Processing:    m.Processing(),
	}
	if current, ok := m.Current(); ok {
		state.CurrentID = &current.ID
	}
	return state
}

// List returns the wallet's conversations and current selection
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	response.OK(w, stateOf(m))
}

type createConversationRequest struct {
	Mode string `json:"mode"`
}

// Create starts a new conversation and makes it current
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req createConversationRequest
	if r.Body != nil {
		// Body is optional; an empty or absent mode means general.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	mode := domain.ChatMode(req.Mode)
	if req.Mode == "" {
		mode = domain.ModeGeneral
	}
	if !domain.ValidMode(mode) {
		response.BadRequest(w, "invalid chat mode")
		return
	}

	conv := m.Create(r.Context(), mode)
	response.Created(w, conv)
}

// Switch makes an existing conversation current
func (h *ChatHandler) Switch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	if !m.SwitchTo(id) {
		response.NotFound(w, "conversation not found")
		return
	}
	response.OK(w, stateOf(m))
}

type renameConversationRequest struct {
	Name string `json:"name" validate:"required"`
}

// Rename updates a conversation's display name
func (h *ChatHandler) Rename(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	var req renameConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m.Rename(r.Context(), id, req.Name)
	response.OK(w, stateOf(m))
}

// Delete removes a conversation
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	m.Delete(r.Context(), id)
	response.OK(w, stateOf(m))
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// Message appends a user message to the current conversation and runs
// the assistant reply synchronously
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	conv, accepted := m.AppendMessage(r.Context(), req.Content, domain.RoleUser)
	if !accepted {
		response.Error(w, http.StatusConflict, "no conversation selected")
		return
	}
	response.OK(w, conv)
}

type setModeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

// SetMode changes the active chat mode
func (h *ChatHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	mode := domain.ChatMode(req.Mode)
	if !domain.ValidMode(mode) {
		response.BadRequest(w, "invalid chat mode")
		return
	}

	m.SetMode(mode)
	response.OK(w, stateOf(m))
}

// Disconnect drops the wallet's in-memory chat state
func (h *ChatHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	addr, ok := middleware.GetWalletAddress(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.hub.Disconnect(r.Context(), addr)
	response.NoContent(w)
}
