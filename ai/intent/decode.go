package intent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
)

var (
	fenceOpenRegex  = regexp.MustCompile("(?i)```(?:json)?\\s*")
	fenceCloseRegex = regexp.MustCompile("```")
	arraySpanRegex  = regexp.MustCompile(`\[[\s\S]*\]`)
)

// ErrNoArray is returned when no JSON array can be recovered from model output.
var ErrNoArray = errors.New("no JSON array in model output")

// DecodeActions recovers an action list from raw model output.
// Code fences are stripped and the first [...] span is parsed. Elements without an
// action tag, with an unknown tag, or with a degenerate name are dropped one by one.
func DecodeActions(raw string) (Actions, error) {
	cleaned := fenceOpenRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.TrimSpace(fenceCloseRegex.ReplaceAllString(cleaned, ""))

	elements, err := extractArray(cleaned)
	if err != nil {
		return nil, err
	}

	actions := make(Actions, 0, len(elements))
	for i, el := range elements {
		var w wireAction
		if err := json.Unmarshal(el, &w); err != nil {
			slog.Debug("intent: dropping undecodable element", "index", i, "error", err.Error())
			continue
		}
		if w.Action == "" || IsDegenerateName(w.Name) {
			slog.Debug("intent: dropping element without action or name", "index", i, "action", w.Action, "name", w.Name)
			continue
		}
		a, err := fromWire(w)
		if err != nil {
			slog.Debug("intent: dropping element", "index", i, "error", err.Error())
			continue
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// extractArray tries the greedy first-[ to last-] span, then a balanced [...] span
// starting at each [ in turn, and returns the first one that parses as an array.
func extractArray(text string) ([]json.RawMessage, error) {
	var elements []json.RawMessage
	if span := arraySpanRegex.FindString(text); span != "" {
		if err := json.Unmarshal([]byte(span), &elements); err == nil {
			return elements, nil
		}
	}
	for offset := 0; offset < len(text); {
		start := strings.IndexByte(text[offset:], '[')
		if start < 0 {
			break
		}
		start += offset
		if span := balancedSpan(text[start:], '[', ']'); span != "" {
			if err := json.Unmarshal([]byte(span), &elements); err == nil {
				return elements, nil
			}
		}
		offset = start + 1
	}
	return nil, ErrNoArray
}

// balancedSpan returns the prefix of input up to the bracket closing the first open bracket.
// Brackets inside JSON strings are ignored.
func balancedSpan(input string, openCh, closeCh byte) string {
	depth := 0
	inString := false
	escape := false
	start := -1

	for i := 0; i < len(input); i++ {
		ch := input[i]
		if escape {
			escape = false
			continue
		}
		if ch == '\\' && inString {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case openCh:
			if depth == 0 {
				start = i
			}
			depth++
		case closeCh:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}
