package services

import (
	"encoding/json"
	"strings"
)

// AdviceSource records which parse stage produced the result, so callers and
// logs can tell a clean structured response from a degraded one.
type AdviceSource int

const (
	AdviceJSON AdviceSource = iota
	AdviceLegacy
	AdviceRawText
)

// ParsedAdvice is the normalized output of one advisor completion: the
// conversational reply plus any actionable checklist items extracted from it.
type ParsedAdvice struct {
	Source AdviceSource
	Reply  string
	Tasks  []string
}

const legacyTaskMarker = "---TASKS---"

type adviceEnvelope struct {
	Reply string `json:"reply"`
	Tasks []struct {
		Title string `json:"title"`
		Done  bool   `json:"done"`
	} `json:"tasks"`
}

// ParseAdvice extracts a reply and task list from raw model output. Models
// are asked for a JSON object but drift: they wrap it in markdown fences,
// bury it in prose, or fall back to the older plain-text marker format. The
// cascade tries the strictest reading first and always produces something
// usable; no model output is ever treated as a hard failure.
func ParseAdvice(raw string) ParsedAdvice {
	trimmed := strings.TrimSpace(raw)

	if advice, ok := tryJSONAdvice(trimmed); ok {
		return advice
	}
	if advice, ok := tryJSONAdvice(stripCodeFences(trimmed)); ok {
		return advice
	}
	if inner, ok := extractJSONObject(trimmed); ok {
		if advice, ok := tryJSONAdvice(inner); ok {
			return advice
		}
	}
	if strings.Contains(trimmed, legacyTaskMarker) {
		return parseLegacyAdvice(trimmed)
	}
	return ParsedAdvice{Source: AdviceRawText, Reply: trimmed}
}

func tryJSONAdvice(candidate string) (ParsedAdvice, bool) {
	if candidate == "" || !strings.HasPrefix(candidate, "{") {
		return ParsedAdvice{}, false
	}

	var env adviceEnvelope
	if err := json.Unmarshal([]byte(candidate), &env); err != nil {
		return ParsedAdvice{}, false
	}
	if strings.TrimSpace(env.Reply) == "" && len(env.Tasks) == 0 {
		return ParsedAdvice{}, false
	}

	advice := ParsedAdvice{Source: AdviceJSON, Reply: strings.TrimSpace(env.Reply)}
	for _, task := range env.Tasks {
		title := strings.TrimSpace(task.Title)
		if title == "" {
			continue
		}
		advice.Tasks = append(advice.Tasks, title)
	}
	return advice, true
}

// stripCodeFences unwraps a single markdown code block, with or without a
// language tag on the opening fence.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		if firstLine == "" || isFenceTag(firstLine) {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// extractJSONObject pulls the widest {...} span out of surrounding prose.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func parseLegacyAdvice(s string) ParsedAdvice {
	parts := strings.SplitN(s, legacyTaskMarker, 2)
	advice := ParsedAdvice{Source: AdviceLegacy, Reply: strings.TrimSpace(parts[0])}

	for _, line := range strings.Split(parts[1], "\n") {
		title := stripBullet(line)
		if title == "" {
			continue
		}
		advice.Tasks = append(advice.Tasks, title)
	}
	return advice
}

// stripBullet removes list decoration ("- ", "* ", "• ", "3. ") from a task
// line.
func stripBullet(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "- ")
	trimmed = strings.TrimPrefix(trimmed, "* ")
	trimmed = strings.TrimPrefix(trimmed, "• ")

	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(trimmed) && trimmed[digits] == '.' {
		trimmed = trimmed[digits+1:]
	}
	return strings.TrimSpace(trimmed)
}
