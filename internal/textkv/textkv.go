package textkv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrKeyNotFound is returned by PullValue when the key does not occur in the text.
var ErrKeyNotFound = errors.New("textkv: key not found")

// Quote wraps s in double quotes, escaping as needed.
func Quote(s string) string {
	return strconv.Quote(s)
}

// Unquote reverses Quote. Surrounding whitespace is ignored.
func Unquote(s string) (string, error) {
	out, err := strconv.Unquote(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("textkv: unquote %q: %w", s, err)
	}
	return out, nil
}

// PullValue returns the raw value associated with key in text.
//
// key is matched literally, so callers pass the quoted form (`"id"`). The
// returned value is trimmed of surrounding whitespace and, for string values,
// still carries its quotes.
func PullValue(key, text string) (string, error) {
	from := 0
	for from <= len(text) {
		i := strings.Index(text[from:], key)
		if i < 0 {
			break
		}
		start := from + i + len(key)
		rest := strings.TrimLeft(text[start:], " \t\r\n")
		if strings.HasPrefix(rest, ":") {
			return scanValue(rest[1:]), nil
		}
		from = start
	}
	return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// scanValue reads up to the first comma or closing brace outside quotes.
func scanValue(s string) string {
	inQuote := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inQuote && c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == ',' || c == '}'):
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}
