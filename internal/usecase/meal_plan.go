package usecase

import (
	"context"
	"fmt"
	"strings"
)

// MealPlanGenerator builds personalized meal plans from the funnel answers.
type MealPlanGenerator struct {
	LLM     LLMClient
	Persona string
}

// Generate produces a markdown meal plan. Free plans cover days days;
// premium plans always cover a full week and include a shopping list and
// prep instructions.
func (g *MealPlanGenerator) Generate(ctx context.Context, goal, allergies, mealCount string, days int, premium bool) (string, error) {
	plan, err := g.LLM.Complete(ctx, g.systemPrompt(), g.planPrompt(goal, allergies, mealCount, days, premium))
	if err != nil {
		return "", fmt.Errorf("generate meal plan: %w", err)
	}
	return strings.TrimSpace(plan), nil
}

func (g *MealPlanGenerator) systemPrompt() string {
	return fmt.Sprintf("You are a %s. You write practical, realistic meal plans "+
		"with common ingredients. Format everything as markdown.", g.Persona)
}

func (g *MealPlanGenerator) planPrompt(goal, allergies, mealCount string, days int, premium bool) string {
	if goal == "" {
		goal = "Eat Healthier"
	}
	if allergies == "" {
		allergies = "none"
	}
	if mealCount == "" {
		mealCount = "3 meals"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day meal plan.\n\n", days)
	fmt.Fprintf(&b, "Goal: %s\n", goal)
	fmt.Fprintf(&b, "Allergies or restrictions: %s\n", allergies)
	fmt.Fprintf(&b, "Meals per day: %s\n\n", mealCount)
	b.WriteString("Use a '## Day N' heading per day with each meal on its own line.\n")

	if premium {
		b.WriteString("Include a '## Shopping List' section with every ingredient, ")
		b.WriteString("and a '## Prep Tips' section with batch-cooking instructions for the week.")
	} else {
		b.WriteString("Keep it concise; no shopping list.")
	}
	return b.String()
}
