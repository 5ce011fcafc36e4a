package funnel

import (
	"regexp"
	"strings"
)

const (
	GoalLoseWeight   = "Lose Weight"
	GoalBuildMuscle  = "Build Muscle"
	GoalSaveTime     = "Save Time"
	GoalEatHealthier = "Eat Healthier"
)

const (
	MealCountTwo         = "2 meals"
	MealCountThree       = "3 meals"
	MealCountThreeSnacks = "3 meals + snacks"
	MealCountFour        = "4 meals"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ExtractGoal buckets the user's goal by keyword, falling back to the
// verbatim text when nothing matches.
func ExtractGoal(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "lose", "weight", "fat", "slim"):
		return GoalLoseWeight
	case containsAny(lower, "muscle", "gain", "bulk", "strong"):
		return GoalBuildMuscle
	case containsAny(lower, "save time", "quick", "easy", "busy"):
		return GoalSaveTime
	case containsAny(lower, "health", "eat better", "nutrition"):
		return GoalEatHealthier
	}
	return text
}

// ExtractMealCount maps the message to one of four fixed buckets. The snack
// check runs before the digit checks so "3 meals plus snacks" lands in the
// snacks bucket. Default is "3 meals".
func ExtractMealCount(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(text, "2") || strings.Contains(lower, "two"):
		return MealCountTwo
	case strings.Contains(lower, "snack"):
		return MealCountThreeSnacks
	case strings.Contains(text, "3") || strings.Contains(lower, "three"):
		return MealCountThree
	case strings.Contains(text, "4") || strings.Contains(lower, "four"):
		return MealCountFour
	}
	return MealCountThree
}

// ExtractEmail returns the first email address found in the text.
func ExtractEmail(text string) (string, bool) {
	match := emailPattern.FindString(text)
	return match, match != ""
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
