package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/funnel-agent/internal/funnel"
	"github.com/xavierca1/funnel-agent/internal/usecase"
)

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) Execute(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
	args := m.Called(ctx, sessionID, message)
	if result, ok := args.Get(0).(*usecase.ChatResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestChatResponseCarriesMessageField(t *testing.T) {
	svc := new(mockChatService)
	svc.On("Execute", mock.Anything, "s1", "hello").
		Return(&usecase.ChatResult{Reply: "Hi! What's your goal?", State: funnel.StateAskGoal}, nil)

	h := NewChatHandler(svc)
	req := httptest.NewRequest("POST", "/api/chat",
		strings.NewReader(`{"session_id":"s1","message":"hello"}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, 200, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Hi! What's your goal?", body["message"])
	assert.Equal(t, "ask_goal", body["state"])
	assert.Equal(t, "s1", body["session_id"])
}

func TestChatGeneratesSessionIDWhenMissing(t *testing.T) {
	svc := new(mockChatService)
	svc.On("Execute", mock.Anything, mock.Anything, "hello").
		Return(&usecase.ChatResult{Reply: "Hi!", State: funnel.StateAskGoal}, nil)

	h := NewChatHandler(svc)
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, 200, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["session_id"])
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h := NewChatHandler(new(mockChatService))
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"session_id":"s1"}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, 400, rec.Code)
}
