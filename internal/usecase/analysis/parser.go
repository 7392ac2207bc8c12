package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/johnquangdev/meeting-analyzer/errors"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x09\x0B\x0C\x0E-\x1F\x7F]`)
	numberMarker = regexp.MustCompile(`^\d+[.)]\s*`)
)

// ParseStructured reads {"summary": ..., "action_items": ...} from a model
// reply. action_items may be a string or a list of strings.
func ParseStructured(raw string) (summary, actionItems string, err error) {
	content := controlChars.ReplaceAllString(extractJSON(raw), "")

	var payload struct {
		Summary     json.RawMessage `json:"summary"`
		ActionItems json.RawMessage `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", "", apperrors.ErrParse("analysis response", err)
	}

	summary, err = flatten(payload.Summary)
	if err != nil || strings.TrimSpace(summary) == "" {
		return "", "", apperrors.ErrParse("analysis response", fmt.Errorf("missing summary"))
	}

	actionItems, err = flatten(payload.ActionItems)
	if err != nil {
		return "", "", apperrors.ErrParse("analysis response", err)
	}
	return strings.TrimSpace(summary), actionItems, nil
}

// flatten accepts a JSON string or a list, one line per element
func flatten(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var list []interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("expected string or list, got %s", truncateForError(raw))
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			parts = append(parts, v)
		default:
			b, _ := json.Marshal(v)
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractJSON strips markdown code fences and any prose around the object
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return strings.TrimSpace(content)
}

// NormalizeActionItems gives every action line a single "• " bullet and
// drops headers and blank lines.
func NormalizeActionItems(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line), "action item") && utf8.RuneCountInString(line) < 30 {
			continue
		}

		line = stripMarker(line)
		if line == "" {
			continue
		}
		out = append(out, "• "+line)
	}

	if len(out) == 0 {
		return SentinelActionItems
	}
	return strings.Join(out, "\n")
}

func stripMarker(line string) string {
	for _, m := range []string{"•", "-", "*", ">"} {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(strings.TrimPrefix(line, m))
		}
	}
	if loc := numberMarker.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:])
	}
	return line
}

func truncateForError(raw json.RawMessage) string {
	const max = 40
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
