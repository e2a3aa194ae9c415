package forms

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSubmitInProgress is returned when Submit is called while a previous
	// submission is still in flight.
	ErrSubmitInProgress = errors.New("forms: submit already in progress")
	// ErrNotReady is returned when Submit is called before Open completed.
	ErrNotReady = errors.New("forms: template not loaded")
	// ErrClosed is returned once the form has been closed; late results are
	// discarded.
	ErrClosed = errors.New("forms: form closed")
	// ErrUpdateUnsupported is returned for resources the backend never updates.
	ErrUpdateUnsupported = errors.New("forms: resource does not support updates")
	// ErrDeleteUnsupported is returned for resources the backend never deletes.
	ErrDeleteUnsupported = errors.New("forms: resource does not support deletes")
	// ErrMissingScope is returned when a scoped path lacks a parameter.
	ErrMissingScope = errors.New("forms: missing scope parameter")
)

// FieldErrors collects validation messages keyed by field name. The empty key
// holds form-level messages.
type FieldErrors map[string][]string

// Add appends message to field.
func (e FieldErrors) Add(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	e[field] = append(e[field], message)
}

// Has reports whether field carries at least one message.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether no messages were collected.
func (e FieldErrors) Empty() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// ValidationError wraps the FieldErrors of a rejected submission.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "forms: validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		if name == "" {
			name = "form"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return "forms: validation failed: " + strings.Join(names, ", ")
}
