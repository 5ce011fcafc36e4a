package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/funnel-agent/internal/funnel"
	"github.com/xavierca1/funnel-agent/internal/session"
)

func newChat(llm *mockLLM, leads *mockLeadRepo, plans *mockPlanRepo, convs *mockConvRepo, email *mockEmailSender) *Chat {
	logger := log.New(io.Discard)
	return &Chat{
		Sessions:     session.NewMemoryStore(),
		LLM:          llm,
		ConvRepo:     convs,
		LeadRepo:     leads,
		PlanRepo:     plans,
		Email:        email,
		Generator:    &MealPlanGenerator{LLM: llm, Persona: "friendly AI nutrition assistant"},
		Persona:      "friendly AI nutrition assistant",
		FreePlanDays: 3,
		PremiumPrice: 19,
		Logger:       logger,
	}
}

func TestChatAdvancesAndPhrasesReply(t *testing.T) {
	llm := new(mockLLM)
	convs := new(mockConvRepo)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("Hi! What's your main health goal?", nil)
	convs.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	chat := newChat(llm, new(mockLeadRepo), new(mockPlanRepo), convs, new(mockEmailSender))

	result, err := chat.Execute(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, funnel.StateAskGoal, result.State)
	assert.Equal(t, "Hi! What's your main health goal?", result.Reply)
}

func TestChatLLMFailureApologizesWithoutAdvancing(t *testing.T) {
	llm := new(mockLLM)
	convs := new(mockConvRepo)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)
	convs.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	chat := newChat(llm, new(mockLeadRepo), new(mockPlanRepo), convs, new(mockEmailSender))

	result, err := chat.Execute(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, apologyReply, result.Reply)
	assert.Equal(t, funnel.StateGreeting, result.State, "a failed turn must not consume the state transition")

	// The retry starts from the same state.
	llm.ExpectedCalls = nil
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("What's your goal?", nil)
	result, err = chat.Execute(context.Background(), "s1", "hello again")
	require.NoError(t, err)
	assert.Equal(t, funnel.StateAskGoal, result.State)
}

func TestChatEmailCaptureDeliversFreePlan(t *testing.T) {
	llm := new(mockLLM)
	leads := new(mockLeadRepo)
	plans := new(mockPlanRepo)
	convs := new(mockConvRepo)
	email := new(mockEmailSender)

	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("## Day 1\nOats.", nil)
	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	leads.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, errNotFound)
	plans.On("Save", mock.Anything, mock.Anything).Return(nil)
	plans.On("MarkSent", mock.Anything, int64(1)).Return(nil)
	email.On("SendFreePlan", "ana@example.com", "", mock.Anything, mock.Anything, 3, 19).Return(nil)
	convs.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	chat := newChat(llm, leads, plans, convs, email)

	conv := funnel.NewConversation("s1")
	conv.State = funnel.StateAskEmail
	conv.Data = funnel.UserData{Goal: "Lose Weight", Allergies: "none", MealCount: "3 meals"}
	chat.Sessions.Put(conv)

	result, err := chat.Execute(context.Background(), "s1", "sure, it's ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, funnel.StateUpsell, result.State)
	assert.Contains(t, result.Reply, "ana@example.com")
	assert.Contains(t, result.Reply, "$19")
	email.AssertExpectations(t)
	plans.AssertExpectations(t)
}

func TestChatInvalidEmailSelfLoops(t *testing.T) {
	convs := new(mockConvRepo)
	convs.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	chat := newChat(new(mockLLM), new(mockLeadRepo), new(mockPlanRepo), convs, new(mockEmailSender))

	conv := funnel.NewConversation("s1")
	conv.State = funnel.StateAskEmail
	chat.Sessions.Put(conv)

	result, err := chat.Execute(context.Background(), "s1", "no thanks")
	require.NoError(t, err)
	assert.Equal(t, funnel.StateAskEmail, result.State)
	assert.Contains(t, result.Reply, "valid email")
}

func TestChatPlanDeliveryFailureRevertsState(t *testing.T) {
	llm := new(mockLLM)
	leads := new(mockLeadRepo)
	convs := new(mockConvRepo)

	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)
	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	leads.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errNotFound)
	convs.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	chat := newChat(llm, leads, new(mockPlanRepo), convs, new(mockEmailSender))

	conv := funnel.NewConversation("s1")
	conv.State = funnel.StateAskEmail
	chat.Sessions.Put(conv)

	result, err := chat.Execute(context.Background(), "s1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, apologyReply, result.Reply)
	assert.Equal(t, funnel.StateAskEmail, result.State)
}
