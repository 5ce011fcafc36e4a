package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/funnel"
	"github.com/xavierca1/funnel-agent/internal/session"
)

const apologyReply = "Sorry, I'm having a moment. Could you say that again?"

// Chat drives one turn of the lead-qualification conversation. The funnel
// package decides the transition; this usecase phrases the reply with the
// LLM, captures the lead, and delivers the free plan when the email lands.
type Chat struct {
	Sessions  session.Store
	LLM       LLMClient
	ConvRepo  ConversationRepositoryInterface
	LeadRepo  entity.LeadRepositoryInterface
	PlanRepo  MealPlanRepositoryInterface
	Email     EmailSender
	Generator *MealPlanGenerator

	Persona      string
	FreePlanDays int
	PremiumPrice int
	Logger       *log.Logger
}

type ChatResult struct {
	Reply string       `json:"message"`
	State funnel.State `json:"state"`
}

// Execute advances the conversation by one user message. A failed LLM call
// or plan delivery apologizes and keeps the previous state so the user can
// just retry.
func (uc *Chat) Execute(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	conv, ok := uc.Sessions.Get(sessionID)
	if !ok {
		conv = funnel.NewConversation(sessionID)
	}

	prevState := conv.State
	prevData := conv.Data

	conv.Append(funnel.RoleUser, message)
	turn := funnel.Advance(conv, message)

	var reply string
	switch {
	case turn.ReplyOverride != "":
		reply = turn.ReplyOverride

	case turn.EmailCaptured:
		var err error
		reply, err = uc.deliverFreePlan(ctx, conv)
		if err != nil {
			uc.Logger.Error("free plan delivery failed", "session", sessionID, "error", err)
			conv.State = prevState
			conv.Data = prevData
			reply = apologyReply
		}

	default:
		var err error
		reply, err = uc.phrase(ctx, conv, message)
		if err != nil {
			uc.Logger.Error("reply phrasing failed", "session", sessionID, "state", conv.State, "error", err)
			conv.State = prevState
			conv.Data = prevData
			reply = apologyReply
		}
	}

	conv.Append(funnel.RoleAssistant, reply)
	uc.Sessions.Put(conv)
	uc.persistTranscript(ctx, conv)

	return &ChatResult{Reply: reply, State: conv.State}, nil
}

// deliverFreePlan runs the whole email-capture side effect chain: upsert the
// lead, generate the plan, store it, email it, and move to the upsell.
func (uc *Chat) deliverFreePlan(ctx context.Context, conv *funnel.Conversation) (string, error) {
	lead := &entity.Lead{
		Email:       conv.Data.Email,
		Preferences: encodePreferences(conv.Data),
	}
	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		return "", fmt.Errorf("upsert lead: %w", err)
	}

	plan, err := uc.Generator.Generate(ctx, conv.Data.Goal, conv.Data.Allergies, conv.Data.MealCount, uc.FreePlanDays, false)
	if err != nil {
		return "", err
	}

	record := &entity.MealPlan{
		LeadID:   lead.ID,
		PlanType: entity.PlanTypeFree,
		PlanData: plan,
	}
	if err := uc.PlanRepo.Save(ctx, record); err != nil {
		return "", fmt.Errorf("save meal plan: %w", err)
	}

	if err := uc.Email.SendFreePlan(lead.Email, lead.Name, conv.Data.Goal, plan, uc.FreePlanDays, uc.PremiumPrice); err != nil {
		return "", fmt.Errorf("email free plan: %w", err)
	}
	if err := uc.PlanRepo.MarkSent(ctx, record.ID); err != nil {
		uc.Logger.Error("mark plan sent failed", "plan_id", record.ID, "error", err)
	}

	conv.PlanDelivered()
	uc.Logger.Info("free plan delivered", "lead_id", lead.ID, "email", lead.Email)

	return fmt.Sprintf(
		"Done! Your free %d-day meal plan is on its way to %s. 🎉 "+
			"Want a fresh 7-day plan with a full shopping list every week? "+
			"Premium is $%d/month and you can upgrade right here.",
		uc.FreePlanDays, conv.Data.Email, uc.PremiumPrice), nil
}

// phrase asks the model to say the next funnel question in character. The
// content of the question is fixed per state; the model only words it.
func (uc *Chat) phrase(ctx context.Context, conv *funnel.Conversation, userMessage string) (string, error) {
	intent, ok := stateIntents[conv.State]
	if !ok {
		return "", fmt.Errorf("no intent for state %s", conv.State)
	}

	system := fmt.Sprintf("You are a %s chatting with a potential customer. "+
		"Reply in one or two short, warm sentences. No markdown.", uc.Persona)

	prompt := fmt.Sprintf("The user just said: %q\n\nYour job this turn: %s", userMessage, intent)
	return uc.LLM.Complete(ctx, system, prompt)
}

var stateIntents = map[funnel.State]string{
	funnel.StateAskGoal:      "Greet them briefly and ask what their main health goal is (losing weight, building muscle, saving time, or eating healthier).",
	funnel.StateAskAllergies: "Acknowledge their goal and ask whether they have any allergies or dietary restrictions.",
	funnel.StateAskMealCount: "Acknowledge and ask how many meals per day they want in their plan.",
	funnel.StateAskEmail:     "Tell them their free personalized meal plan is ready to send and ask for their email address.",
	funnel.StateUpsell:       "Answer briefly and remind them the premium weekly plan subscription exists if they want more.",
}

// persistTranscript mirrors the in-memory conversation to the database.
// Failures are logged, never surfaced: losing a transcript must not break
// the chat.
func (uc *Chat) persistTranscript(ctx context.Context, conv *funnel.Conversation) {
	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		uc.Logger.Error("marshal transcript failed", "session", conv.SessionID, "error", err)
		return
	}

	record := &entity.Conversation{
		SessionID: conv.SessionID,
		Messages:  string(messages),
	}
	if conv.Data.Email != "" {
		if lead, err := uc.LeadRepo.GetByEmail(ctx, conv.Data.Email); err == nil {
			record.LeadID = &lead.ID
		}
	}

	if err := uc.ConvRepo.Upsert(ctx, record); err != nil {
		uc.Logger.Error("persist transcript failed", "session", conv.SessionID, "error", err)
	}
}

func encodePreferences(data funnel.UserData) string {
	prefs, _ := json.Marshal(data)
	return string(prefs)
}
