package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoObject = errors.New("no JSON object in response")

// ExtractJSONObject returns the first balanced {...} substring of text that
// is valid JSON. Surrounding prose and markdown code fences are ignored,
// braces inside JSON strings do not count toward nesting, and balanced
// non-JSON spans such as "{your plan}" are skipped.
func ExtractJSONObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := matchObject(text, start); ok && json.Valid([]byte(text[start:end+1])) {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchObject returns the index of the brace closing the object opened at start.
func matchObject(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
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
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeObject extracts the first valid JSON object from text and unmarshals it
// into dst.
func DecodeObject(text string, dst any) error {
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return errNoObject
	}
	if err := json.Unmarshal([]byte(obj), dst); err != nil {
		return fmt.Errorf("decode JSON object: %w", err)
	}
	return nil
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
