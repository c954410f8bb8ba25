package utils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject pulls the first JSON object out of an LLM response.
// It prefers a fenced ```json block, then falls back to the first
// balanced top-level {...} span. Returns false when no object is found.
func ExtractJSONObject(text string) (string, bool) {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeJSONObject extracts and unmarshals the first JSON object in
// the text into v.
func DecodeJSONObject(text string, v interface{}) error {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return json.Unmarshal([]byte(strings.TrimSpace(text)), v)
	}
	return json.Unmarshal([]byte(raw), v)
}
