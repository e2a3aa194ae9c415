package options

import (
	"strconv"
	"strings"
)

// envelopeKeys are the wrapper keys backends use around paged collections.
var envelopeKeys = []string{"pageItems", "content", "data"}

// Extract resolves a dotted results path inside payload and returns the list
// found there. An empty path returns payload itself when it is a list, or the
// contents of a known collection envelope. Missing paths yield nil.
func Extract(payload any, path string) []any {
	current := payload
	path = strings.TrimSpace(path)
	if path != "" {
		for _, segment := range strings.Split(path, ".") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			switch node := current.(type) {
			case map[string]any:
				next, ok := node[segment]
				if !ok {
					return nil
				}
				current = next
			case []any:
				idx, err := strconv.Atoi(segment)
				if err != nil || idx < 0 || idx >= len(node) {
					return nil
				}
				current = node[idx]
			default:
				return nil
			}
		}
	}
	return Unwrap(current)
}

// Unwrap returns value as a list, looking through collection envelopes such
// as {"pageItems": [...]}.
func Unwrap(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}
		return out
	case map[string]any:
		for _, key := range envelopeKeys {
			if list, ok := typed[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}

// Lookup walks a dotted path through nested maps and returns the value found.
func Lookup(record map[string]any, path string) (any, bool) {
	if record == nil {
		return nil, false
	}
	var current any = record
	for _, segment := range strings.Split(strings.TrimSpace(path), ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
