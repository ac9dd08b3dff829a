package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNoJSONObject = errors.New("no balanced JSON object in response")

// ExtractJSONObject returns the first balanced {...} span in text. Braces
// inside string literals are ignored, so prose and code fences around the
// payload are tolerated.
func ExtractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// DecodeJSONObject extracts the first object from text and unmarshals it into v.
func DecodeJSONObject(text string, v any) error {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}
