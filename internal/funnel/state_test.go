package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGoalBuckets(t *testing.T) {
	assert.Equal(t, GoalLoseWeight, ExtractGoal("I want to lose some weight"))
	assert.Equal(t, GoalLoseWeight, ExtractGoal("shed the fat"))
	assert.Equal(t, GoalBuildMuscle, ExtractGoal("bulk up and get strong"))
	assert.Equal(t, GoalSaveTime, ExtractGoal("I'm super busy during the week"))
	assert.Equal(t, GoalEatHealthier, ExtractGoal("just want better nutrition"))

	// No bucket matches: the raw text comes back verbatim.
	assert.Equal(t, "world domination", ExtractGoal("world domination"))
}

func TestExtractMealCountBuckets(t *testing.T) {
	cases := map[string]string{
		"2 meals is plenty": MealCountTwo,
		"two per day":       MealCountTwo,
		"I like snacking":   MealCountThreeSnacks,
		// has a digit 3, but the snack check runs first
		"3 meals plus snacks":   MealCountThreeSnacks,
		"three square meals":    MealCountThree,
		"4 meals":               MealCountFour,
		"four smaller portions": MealCountFour,
		"just the basics":       MealCountThree, // default
		"":                      MealCountThree,
	}

	for input, want := range cases {
		assert.Equal(t, want, ExtractMealCount(input), "input %q", input)
	}
}

func TestExtractMealCountAlwaysABucket(t *testing.T) {
	buckets := map[string]bool{
		MealCountTwo:         true,
		MealCountThree:       true,
		MealCountThreeSnacks: true,
		MealCountFour:        true,
	}
	for _, input := range []string{"whatever", "breakfast only please", "7 meals", "snacks and 2"} {
		got := ExtractMealCount(input)
		assert.True(t, buckets[got], "input %q produced non-bucket %q", input, got)
	}
}

func TestExtractEmail(t *testing.T) {
	email, ok := ExtractEmail("reach me at a.b@example.co")
	assert.True(t, ok)
	assert.Equal(t, "a.b@example.co", email)

	_, ok = ExtractEmail("no email here")
	assert.False(t, ok)
}

func TestAdvanceGreetingReachesAskGoalInOneTurn(t *testing.T) {
	c := NewConversation("s1")
	turn := Advance(c, "hi!")

	assert.Equal(t, StateAskGoal, turn.NextState)
	assert.Equal(t, StateAskGoal, c.State)
}

func TestAdvanceCollectsDataAcrossTurns(t *testing.T) {
	c := NewConversation("s1")

	Advance(c, "hello")
	Advance(c, "I want to lose weight")
	assert.Equal(t, GoalLoseWeight, c.Data.Goal)
	assert.Equal(t, StateAskAllergies, c.State)

	Advance(c, "no peanuts, hate cilantro")
	assert.Equal(t, "no peanuts, hate cilantro", c.Data.Allergies)
	assert.Equal(t, StateAskMealCount, c.State)

	Advance(c, "3 meals and snacks")
	assert.Equal(t, MealCountThreeSnacks, c.Data.MealCount)
	assert.Equal(t, StateAskEmail, c.State)

	turn := Advance(c, "sure, jane@example.com")
	assert.True(t, turn.EmailCaptured)
	assert.Equal(t, "jane@example.com", c.Data.Email)
	assert.Equal(t, StateGeneratePlan, c.State)

	c.PlanDelivered()
	assert.Equal(t, StateUpsell, c.State)
}

func TestAdvanceEmailSelfLoop(t *testing.T) {
	c := NewConversation("s1")
	c.State = StateAskEmail

	turn := Advance(c, "I'd rather not say")
	assert.Equal(t, StateAskEmail, c.State)
	assert.False(t, turn.EmailCaptured)
	assert.NotEmpty(t, turn.ReplyOverride)

	// Retry is unbounded: a second miss behaves the same.
	turn = Advance(c, "still nothing")
	assert.Equal(t, StateAskEmail, c.State)
	assert.NotEmpty(t, turn.ReplyOverride)

	turn = Advance(c, "ok fine, bob@mail.org")
	assert.True(t, turn.EmailCaptured)
	assert.Equal(t, StateGeneratePlan, c.State)
}

func TestAdvanceNeverRegresses(t *testing.T) {
	order := map[State]int{
		StateGreeting:     0,
		StateAskGoal:      1,
		StateAskAllergies: 2,
		StateAskMealCount: 3,
		StateAskEmail:     4,
		StateGeneratePlan: 5,
		StateUpsell:       6,
	}

	c := NewConversation("s1")
	inputs := []string{"hi", "muscle", "none", "4", "nope", "me@x.io", "sounds good", "ok"}
	prev := order[c.State]
	for _, in := range inputs {
		Advance(c, in)
		cur := order[c.State]
		assert.GreaterOrEqual(t, cur, prev, "state regressed on input %q", in)
		prev = cur
	}
	assert.Equal(t, StateUpsell, c.State)
}

func TestLastAssistantMessage(t *testing.T) {
	c := NewConversation("s1")
	assert.Equal(t, "", c.LastAssistantMessage())

	c.Append(RoleUser, "hi")
	c.Append(RoleAssistant, "hello!")
	c.Append(RoleUser, "bye")
	assert.Equal(t, "hello!", c.LastAssistantMessage())
}
