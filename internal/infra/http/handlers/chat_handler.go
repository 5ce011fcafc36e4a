package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/xavierca1/funnel-agent/internal/funnel"
	"github.com/xavierca1/funnel-agent/internal/infra/http/middleware"
	"github.com/xavierca1/funnel-agent/internal/usecase"
)

// ChatService advances a conversation by one user message.
type ChatService interface {
	Execute(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error)
}

type ChatHandler struct {
	Chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{Chat: chat}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Message   string `json:"message"`
	State     string `json:"state"`
	SessionID string `json:"session_id"`
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := h.Chat.Execute(r.Context(), req.SessionID, req.Message)
	if err != nil {
		http.Error(w, "chat unavailable", http.StatusInternalServerError)
		return
	}

	middleware.RecordChatTurn(string(result.State))
	if result.State == funnel.StateUpsell {
		middleware.RecordLeadCaptured()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{
		Message:   result.Reply,
		State:     string(result.State),
		SessionID: req.SessionID,
	})
}
