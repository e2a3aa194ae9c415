package forms

import (
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/options"
)

// Record is an opaque backend resource as decoded from JSON.
type Record = map[string]any

// Values holds raw editable input keyed by field name. Multi-valued fields
// store their entries comma separated.
type Values map[string]string

// Get returns the trimmed value of name.
func (v Values) Get(name string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v[name])
}

// Set stores value under name.
func (v Values) Set(name, value string) {
	v[name] = value
}

// List splits a multi-valued entry.
func (v Values) List(name string) []string {
	raw := v.Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Scope carries the path parameters of nested resources (for example the
// loanId of a collateral).
type Scope map[string]string

// Mode distinguishes create from update submissions.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

func pick(record Record, paths ...string) string {
	for _, path := range paths {
		value, ok := options.Lookup(record, path)
		if !ok {
			continue
		}
		if s := options.Stringify(value); s != "" {
			return s
		}
	}
	return ""
}

func pickDate(record Record, paths ...string) string {
	for _, path := range paths {
		value, ok := options.Lookup(record, path)
		if !ok {
			continue
		}
		if s := NormalizeDate(value); s != "" {
			return s
		}
	}
	return ""
}

func pickBool(record Record, paths ...string) string {
	for _, path := range paths {
		value, ok := options.Lookup(record, path)
		if !ok {
			continue
		}
		if b, ok := value.(bool); ok {
			if b {
				return "true"
			}
			return "false"
		}
	}
	return ""
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
