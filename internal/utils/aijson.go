package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelJSON extracts and parses a JSON object from raw model output.
// Extraction models are asked for pure JSON but still occasionally wrap it
// in markdown fences, prepend prose, or leave trailing commas; each
// fallback below handles one of those shapes.
func ParseModelJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty model output")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if fenced := unfence(input); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if embedded := firstJSONObject(input); embedded != "" {
		if err := json.Unmarshal([]byte(embedded), target); err == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(stripTrailingCommas(embedded)), target); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal([]byte(stripTrailingCommas(input)), target); err == nil {
		return nil
	}

	return fmt.Errorf("no parseable JSON in model output: %s", truncate(input, 120))
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// unfence pulls the body out of a ```json ... ``` block.
func unfence(input string) string {
	m := fenceRe.FindStringSubmatch(input)
	if len(m) < 2 {
		return ""
	}
	body := strings.TrimSpace(m[1])
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return body
	}
	return ""
}

// firstJSONObject returns the first balanced {...} in the input,
// respecting string literals and escapes.
func firstJSONObject(input string) string {
	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return input[start : i+1]
				}
			}
		}
	}
	return ""
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

func stripTrailingCommas(input string) string {
	return trailingCommaRe.ReplaceAllString(strings.TrimSpace(input), "$1")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
