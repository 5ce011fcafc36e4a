package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScriptWithBoldMarkers(t *testing.T) {
	raw := `**HOOK:** Stop wasting 2 hours every Sunday!

**MAIN CONTENT:**
Batch cook your proteins first.
Grains cook while you chop.

**CTA:** Want a custom meal plan? Link in bio!

**VISUAL NOTES:** Fast cuts of containers being filled.`

	script := ParseScript(raw)
	assert.Equal(t, "Stop wasting 2 hours every Sunday!", script.Hook)
	assert.Contains(t, script.MainContent, "Batch cook your proteins first.")
	assert.Contains(t, script.MainContent, "Grains cook while you chop.")
	assert.Equal(t, "Want a custom meal plan? Link in bio!", script.CTA)
	assert.Equal(t, "Fast cuts of containers being filled.", script.VisualNotes)
}

func TestParseScriptPlainMarkersAndCasing(t *testing.T) {
	raw := "hook: Quick one\nScript:\nthe body\ncall to action: follow me"

	script := ParseScript(raw)
	assert.Equal(t, "Quick one", script.Hook)
	assert.Equal(t, "the body", script.MainContent)
	assert.Equal(t, "follow me", script.CTA)
}

func TestParseScriptNoMarkersFallsBackToMainContent(t *testing.T) {
	raw := "Just a paragraph of text with no structure at all."

	script := ParseScript(raw)
	assert.Empty(t, script.Hook)
	assert.Empty(t, script.CTA)
	assert.Equal(t, raw, script.MainContent)
	assert.Equal(t, raw, script.FullText)
}

func TestNarrationSkipsVisualNotes(t *testing.T) {
	script := Script{Hook: "A", MainContent: "B", CTA: "C", VisualNotes: "never spoken"}
	narration := script.Narration()
	assert.Equal(t, "A B C", narration)

	partial := Script{MainContent: "only body"}
	assert.Equal(t, "only body", partial.Narration())
}

func TestExtractShoppingList(t *testing.T) {
	plan := `# 3-Day Plan

## Day 1
Oatmeal, chicken salad.

## Shopping List
- Oats
- Chicken breast
- Spinach

## Prep Tips
Cook grains in advance.`

	list := ExtractShoppingList(plan)
	assert.Equal(t, "- Oats\n- Chicken breast\n- Spinach", list)
}

func TestExtractShoppingListMissing(t *testing.T) {
	assert.Equal(t, "See meal plan for ingredient details.", ExtractShoppingList("## Day 1\nFood."))
	assert.Equal(t, "See meal plan for ingredient details.", ExtractShoppingList("## Shopping List\n\n## Next"))
}

func TestTopicHashtags(t *testing.T) {
	tags := TopicHashtags("High-Protein Meal Prep for the Busy Week", 3)
	assert.Equal(t, []string{"#highprotein", "#meal", "#prep"}, tags)
}

func TestTopicHashtagsSkipsStopwordsAndDuplicates(t *testing.T) {
	tags := TopicHashtags("How to prep PREP prep", 5)
	assert.Equal(t, []string{"#prep"}, tags)

	assert.Empty(t, TopicHashtags("", 3))
}

func TestBuildCaptionRespectsLimit(t *testing.T) {
	caption := BuildCaption("Hook here", "Follow for more", DefaultHashtags)
	assert.Contains(t, caption, "Hook here")
	assert.Contains(t, caption, "#mealprep")

	long := BuildCaption(strings.Repeat("x", 3000), "cta", DefaultHashtags)
	assert.LessOrEqual(t, len(long), 2200)
}
