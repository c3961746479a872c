// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"net/url"
)

// KeyValue parses a "key=value" or "key:value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to '='.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{'='}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Params parses "key=value" pairs into a map. A repeated key keeps the last value.
func Params(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := KeyValue(p)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q: expected key=value", p)
		}
		result[key] = value
	}
	return result, nil
}

// Query parses "key=value" pairs into url.Values, keeping repeated keys.
func Query(pairs []string) (url.Values, error) {
	values := make(url.Values, len(pairs))
	for _, p := range pairs {
		key, value, ok := KeyValue(p)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query %q: expected key=value", p)
		}
		values.Add(key, value)
	}
	return values, nil
}
