package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"learn-ease-backend/internal/logger"
	"learn-ease-backend/models"
)

// Models wrap answers in markdown fences no matter how firmly the prompt says
// not to, and pad JSON with prose. The parser accepts three shapes, tried in
// fixed priority order: the content of a fenced code block, the substring
// between the first '[' and the last ']', and the raw cleaned text.

// CleanModelOutput strips leading/trailing triple-backtick fence markers,
// including an optional language tag on the opening fence.
func CleanModelOutput(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// extractFenced returns the body of the first fenced code block, if any.
func extractFenced(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	s = s[start+3:]
	// Skip the optional language tag up to end of line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	end := strings.Index(s, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(s[:end]), true
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(s) <= 16
}

// extractBracketed returns the substring spanning the first '[' through the
// last ']'.
func extractBracketed(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// arrayCandidates lists the payloads to attempt parsing, in priority order.
func arrayCandidates(raw string) []string {
	var candidates []string
	if fenced, ok := extractFenced(raw); ok {
		candidates = append(candidates, fenced)
	}
	cleaned := CleanModelOutput(raw)
	if bracketed, ok := extractBracketed(cleaned); ok {
		candidates = append(candidates, bracketed)
	}
	candidates = append(candidates, cleaned)
	return candidates
}

// ParseFlashcards extracts a validated flashcard list from free-form model
// output. Elements missing a front or back are dropped (logged, not fatal);
// a non-empty parse that filters down to nothing is an ErrBadOutput, distinct
// from the provider legitimately returning an empty list.
func ParseFlashcards(raw string) ([]models.Flashcard, error) {
	var items []map[string]interface{}
	parsed := false
	for _, candidate := range arrayCandidates(raw) {
		if err := json.Unmarshal([]byte(candidate), &items); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return nil, fmt.Errorf("%w: no parseable JSON array in response", ErrBadOutput)
	}

	if len(items) == 0 {
		return []models.Flashcard{}, nil
	}

	cards := make([]models.Flashcard, 0, len(items))
	for i, item := range items {
		front, frontOK := coerceText(item["front"])
		back, backOK := coerceText(item["back"])
		if !frontOK || !backOK {
			logger.Warn("Dropping malformed flashcard element", "index", i)
			continue
		}
		cards = append(cards, models.Flashcard{Front: front, Back: back})
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no element had both front and back", ErrBadOutput)
	}
	return cards, nil
}

// coerceText converts a parsed JSON value to a non-empty string.
func coerceText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
