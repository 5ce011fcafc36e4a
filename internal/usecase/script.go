package usecase

import (
	"bufio"
	"strings"
)

// Script is a parsed short-form video script. Generation prompts ask the
// model for labeled sections; the scanner below recovers them.
type Script struct {
	Hook        string
	MainContent string
	CTA         string
	VisualNotes string
	FullText    string
}

// Narration is the spoken part of the script, in order. Visual notes are
// direction for the composer, never read aloud.
func (s Script) Narration() string {
	var parts []string
	for _, p := range []string{s.Hook, s.MainContent, s.CTA} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// sectionMarkers maps the labels the model emits to script fields. Matching
// tolerates markdown bold and either casing since models are inconsistent.
var sectionMarkers = map[string]string{
	"HOOK":           "hook",
	"MAIN CONTENT":   "main",
	"SCRIPT":         "main",
	"CTA":            "cta",
	"CALL TO ACTION": "cta",
	"VISUAL NOTES":   "visual",
	"VISUALS":        "visual",
}

// ParseScript scans the model output line by line for section markers.
// Missing sections come back empty; when no marker is found at all the whole
// text becomes MainContent so a degraded response still produces a video.
func ParseScript(raw string) Script {
	script := Script{FullText: strings.TrimSpace(raw)}

	var current string
	sections := map[string][]string{}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if field, rest, ok := matchMarker(line); ok {
			current = field
			if rest != "" {
				sections[current] = append(sections[current], rest)
			}
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	script.Hook = joinSection(sections["hook"])
	script.MainContent = joinSection(sections["main"])
	script.CTA = joinSection(sections["cta"])
	script.VisualNotes = joinSection(sections["visual"])

	if script.Hook == "" && script.MainContent == "" && script.CTA == "" {
		script.MainContent = script.FullText
	}
	return script
}

// matchMarker checks whether the line starts a new section and returns any
// content that follows the label on the same line.
func matchMarker(line string) (field, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "#")
	trimmed = strings.TrimSpace(trimmed)

	for marker, f := range sectionMarkers {
		for _, candidate := range []string{"**" + marker + ":**", "**" + marker + "**:", marker + ":"} {
			if len(trimmed) >= len(candidate) && strings.EqualFold(trimmed[:len(candidate)], candidate) {
				return f, strings.TrimSpace(trimmed[len(candidate):]), true
			}
		}
	}
	return "", "", false
}

func joinSection(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractShoppingList pulls the "## Shopping List" section out of a
// generated meal plan, up to the next heading. Plans without one get a
// pointer back to the plan body.
func ExtractShoppingList(plan string) string {
	lower := strings.ToLower(plan)
	start := strings.Index(lower, "## shopping list")
	if start == -1 {
		return "See meal plan for ingredient details."
	}

	section := plan[start:]
	if nl := strings.Index(section, "\n"); nl != -1 {
		section = section[nl+1:]
	} else {
		section = ""
	}

	if end := strings.Index(section, "##"); end != -1 {
		section = section[:end]
	}

	section = strings.TrimSpace(section)
	if section == "" {
		return "See meal plan for ingredient details."
	}
	return section
}

const maxCaptionLength = 2200

// BuildCaption assembles a social caption from the hook, the call to
// action, and hashtags, within the platform limit.
func BuildCaption(hook, cta string, hashtags []string) string {
	var b strings.Builder
	if hook != "" {
		b.WriteString(hook)
		b.WriteString("\n\n")
	}
	if cta != "" {
		b.WriteString(cta)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(hashtags, " "))

	caption := strings.TrimSpace(b.String())
	if len(caption) > maxCaptionLength {
		caption = caption[:maxCaptionLength]
	}
	return caption
}

// DefaultHashtags are appended to every post in the niche.
var DefaultHashtags = []string{
	"#mealprep", "#mealplanning", "#healthyeating",
	"#mealprepideas", "#nutrition", "#healthyrecipes",
}

var hashtagStopwords = map[string]bool{
	"the": true, "and": true, "with": true, "your": true,
	"for": true, "that": true, "this": true, "from": true,
	"how": true, "why": true, "what": true, "are": true,
}

// TopicHashtags derives up to limit extra tags from the trend topic, so
// captions carry topic-specific tags on top of the niche base set.
func TopicHashtags(topic string, limit int) []string {
	var tags []string
	seen := map[string]bool{}

	for _, word := range strings.Fields(strings.ToLower(topic)) {
		cleaned := strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, word)

		if len(cleaned) < 4 || hashtagStopwords[cleaned] || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		tags = append(tags, "#"+cleaned)
		if len(tags) == limit {
			break
		}
	}
	return tags
}
