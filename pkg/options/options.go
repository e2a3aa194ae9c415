// Package options converts the loosely-typed option lists returned by backend
// template endpoints into a uniform, ordered sequence of {ID, Name} pairs.
//
// Backend versions disagree on key names: identifiers show up as id, value or
// key and display strings as name, displayName, text or label. Normalize
// resolves the first present key of each group and drops records that carry
// no usable identifier.
package options

import (
	"math"
	"strconv"
	"strings"
)

// Option is the normalized shape every select/typeahead input consumes.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Keys lists the candidate keys probed, in order, for the identifier and the
// display name. Fallback keys are consulted for the name only when none of the
// Name keys resolve.
type Keys struct {
	ID       []string
	Name     []string
	Fallback []string
}

// DefaultKeys mirrors the key variance observed across backend template
// payloads.
func DefaultKeys() Keys {
	return Keys{
		ID:       []string{"id", "value", "key"},
		Name:     []string{"name", "displayName", "text", "label"},
		Fallback: []string{"value", "code", "accountNo"},
	}
}

// Normalize applies DefaultKeys to items.
func Normalize(items []any) []Option {
	return NormalizeWith(items, DefaultKeys())
}

// NormalizeWith converts items using the provided key set. Records without a
// resolvable identifier are skipped; the relative order of the rest is kept.
// Bare strings and numbers are treated as self-identifying options.
func NormalizeWith(items []any, keys Keys) []Option {
	if len(items) == 0 {
		return nil
	}

	out := make([]Option, 0, len(items))
	for _, item := range items {
		opt, ok := normalizeItem(item, keys)
		if !ok {
			continue
		}
		out = append(out, opt)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeMaps is a convenience for callers holding already-typed records.
func NormalizeMaps(items []map[string]any) []Option {
	if len(items) == 0 {
		return nil
	}
	raw := make([]any, 0, len(items))
	for _, item := range items {
		raw = append(raw, item)
	}
	return Normalize(raw)
}

// Find returns the option with the given id.
func Find(opts []Option, id string) (Option, bool) {
	id = strings.TrimSpace(id)
	for _, opt := range opts {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Label resolves id to its display name, falling back to the id itself.
func Label(opts []Option, id string) string {
	if opt, ok := Find(opts, id); ok {
		return opt.Name
	}
	return strings.TrimSpace(id)
}

func normalizeItem(item any, keys Keys) (Option, bool) {
	switch typed := item.(type) {
	case map[string]any:
		return normalizeRecord(typed, keys)
	case string, float64, float32, int, int32, int64, uint, uint32, uint64:
		id := Stringify(typed)
		if id == "" {
			return Option{}, false
		}
		return Option{ID: id, Name: id}, true
	default:
		return Option{}, false
	}
}

func normalizeRecord(record map[string]any, keys Keys) (Option, bool) {
	idKey, id := firstValue(record, keys.ID)
	if id == "" {
		return Option{}, false
	}

	_, name := firstValue(record, keys.Name)
	if name == "" {
		for _, key := range keys.Fallback {
			if key == idKey {
				continue
			}
			if value := Stringify(record[key]); value != "" {
				name = value
				break
			}
		}
	}
	if name == "" {
		name = id
	}
	return Option{ID: id, Name: name}, true
}

func firstValue(record map[string]any, keys []string) (string, string) {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		if value := Stringify(raw); value != "" {
			return key, value
		}
	}
	return "", ""
}

// Stringify renders scalar JSON values as strings. Integral numbers print
// without a fractional part so ids decoded as float64 round-trip cleanly.
// Non-scalar values yield "".
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return formatFloat(typed)
	case float32:
		return formatFloat(float64(typed))
	case int:
		return strconv.Itoa(typed)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint:
		return strconv.FormatUint(uint64(typed), 10)
	case uint32:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	case interface{ String() string }:
		return strings.TrimSpace(typed.String())
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
