// Package funnel holds the lead-qualification conversation script: a strictly
// linear six-state flow that collects goal, allergies, meal count and email
// one turn at a time. The package is pure — no I/O, no LLM calls, no
// persistence. Callers phrase the replies and run the side effects.
package funnel

type State string

const (
	StateGreeting     State = "greeting"
	StateAskGoal      State = "ask_goal"
	StateAskAllergies State = "ask_allergies"
	StateAskMealCount State = "ask_meal_count"
	StateAskEmail     State = "ask_email"
	StateGeneratePlan State = "generate_plan"
	StateUpsell       State = "upsell"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserData is what the funnel has extracted so far. Everything is free text
// except Goal and MealCount, which come from fixed keyword buckets.
type UserData struct {
	Goal      string `json:"goal,omitempty"`
	Allergies string `json:"allergies,omitempty"`
	MealCount string `json:"meal_count,omitempty"`
	Email     string `json:"email,omitempty"`
}

type Conversation struct {
	SessionID string    `json:"session_id"`
	State     State     `json:"state"`
	Messages  []Message `json:"messages"`
	Data      UserData  `json:"user_data"`
}

func NewConversation(sessionID string) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		State:     StateGreeting,
	}
}

// Turn is the outcome of advancing the conversation by one user message.
// ReplyOverride, when set, replaces whatever the LLM phrased (used for the
// email re-prompt). EmailCaptured tells the caller to generate and send the
// free plan, then call PlanDelivered.
type Turn struct {
	NextState     State
	ReplyOverride string
	EmailCaptured bool
}

const emailRePrompt = "I didn't catch a valid email. Could you please provide your email address?"

// Advance runs the state-specific extractor against the raw user text and
// moves the conversation forward. The only state that can repeat is
// ask_email, when no address is found in the message.
func Advance(c *Conversation, userText string) Turn {
	turn := Turn{NextState: c.State}

	switch c.State {
	case StateGreeting:
		turn.NextState = StateAskGoal

	case StateAskGoal:
		c.Data.Goal = ExtractGoal(userText)
		turn.NextState = StateAskAllergies

	case StateAskAllergies:
		c.Data.Allergies = userText
		turn.NextState = StateAskMealCount

	case StateAskMealCount:
		c.Data.MealCount = ExtractMealCount(userText)
		turn.NextState = StateAskEmail

	case StateAskEmail:
		email, ok := ExtractEmail(userText)
		if ok {
			c.Data.Email = email
			turn.NextState = StateGeneratePlan
			turn.EmailCaptured = true
		} else {
			turn.ReplyOverride = emailRePrompt
		}

	case StateGeneratePlan:
		turn.NextState = StateUpsell

	case StateUpsell:
		// Terminal. Stay here.
	}

	c.State = turn.NextState
	return turn
}

// PlanDelivered moves the conversation past generate_plan once the caller
// has generated and emailed the free plan.
func (c *Conversation) PlanDelivered() {
	if c.State == StateGeneratePlan {
		c.State = StateUpsell
	}
}

func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// LastAssistantMessage returns the most recent bot reply, or "".
func (c *Conversation) LastAssistantMessage() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i].Content
		}
	}
	return ""
}
