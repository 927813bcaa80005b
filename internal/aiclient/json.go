package aiclient

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ExtractJSONObject parses a JSON object out of a freeform text reply.
// It tries the trimmed body first, then the widest {...} span. Any failure
// returns an empty map, never an error; an empty map means the selection
// or classification failed and the caller applies its documented default.
func ExtractJSONObject(text string) map[string]any {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return map[string]any{}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return map[string]any{}
	}

	obj = nil
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return map[string]any{}
	}
	return obj
}

// JSONInt reads an integer field from an extracted object, tolerating the
// float64 and string forms models actually emit. Returns fallback when the
// field is absent or unusable.
func JSONInt(obj map[string]any, key string, fallback int) int {
	v, ok := obj[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// JSONString reads a string field, "" when absent or not a string.
func JSONString(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// JSONStrings reads a list-of-strings field, dropping non-string entries.
func JSONStrings(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
