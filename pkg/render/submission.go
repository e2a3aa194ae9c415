package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// HiddenField is a hidden input rendered ahead of the visible controls.
type HiddenField struct {
	Name  string
	Value string
}

func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// MethodOverride returns the _method field an HTML form needs for PUT or
// DELETE. GET and POST need none and yield a blank field.
func MethodOverride(method string) HiddenField {
	switch method = strings.ToUpper(strings.TrimSpace(method)); method {
	case "", "GET", "POST":
		return HiddenField{}
	}
	return Hidden("_method", method)
}

// ScopeFields carries scope parameters such as loanId through a form post.
// Blank values are dropped.
func ScopeFields(scope map[string]string) []HiddenField {
	var fields []HiddenField
	for _, name := range slices.Sorted(maps.Keys(scope)) {
		if strings.TrimSpace(scope[name]) != "" {
			fields = append(fields, Hidden(name, scope[name]))
		}
	}
	return fields
}

// MergeHiddenFields copies base and applies fields over it. Blank names are
// skipped; the result is nil when nothing remains.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := map[string]string{}
	for name, value := range base {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name for stable markup.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if clean == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(clean))
	for _, name := range slices.Sorted(maps.Keys(clean)) {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}
