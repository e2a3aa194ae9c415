package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

// ErrorMapping groups validation messages by form field. Messages that name
// no field of the form end up in Form.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors appends extras to existing, trimming blanks and dropping
// repeats while keeping first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return uniqueMessages(append(append([]string{}, existing...), extras...))
}

// MapErrorPayload assigns messages keyed by backend parameter names to the
// fields of form. Keys may carry JSON path decoration ("$.offices[0]",
// "/body/fromDate", "offices[0].officeId"); the first segment naming a form
// field wins. Keys that match nothing are kept as form-level messages.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	names := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			names[name] = true
		}
	}

	for key, messages := range payload {
		messages = uniqueMessages(messages)
		if len(messages) == 0 {
			continue
		}
		field := fieldForKey(key, names)
		if field == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}
	mapping.Form = uniqueMessages(mapping.Form)
	return mapping
}

func fieldForKey(key string, names map[string]bool) string {
	key = strings.TrimSpace(key)
	switch strings.ToLower(key) {
	case "", "form", "base", "__all__", "non_field_errors":
		return ""
	}
	segments := strings.FieldsFunc(key, func(r rune) bool {
		switch r {
		case '.', '/', '[', ']', '$', '#':
			return true
		}
		return false
	})
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if names[segment] {
			return segment
		}
	}
	return ""
}

func uniqueMessages(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}
