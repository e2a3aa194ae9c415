package apiclient

import (
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// Error is returned for non-2xx responses. Message holds the first
// user-facing message the backend supplied (empty when it sent none); Errors
// lists every one.
type Error struct {
	Status  int
	Message string
	Errors  []FieldError
}

// FieldError is one entry of the backend's errors array.
type FieldError struct {
	Parameter string
	Message   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return "apiclient: " + e.Message
	}
	return "apiclient: " + http.StatusText(e.StatusCode())
}

// StatusCode reports the HTTP status, defaulting to 500.
func (e *Error) StatusCode() int {
	if e == nil || e.Status <= 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// FieldMessages groups backend messages by parameter name. Messages without a
// parameter are keyed by "" so callers can surface them at form level.
func (e *Error) FieldMessages() map[string][]string {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Parameter] = append(out[fe.Parameter], fe.Message)
	}
	return out
}

type errorPayload struct {
	DefaultUserMessage   string `json:"defaultUserMessage"`
	DeveloperMessage     string `json:"developerMessage"`
	UserMessageGlobalKey string `json:"userMessageGlobalisationCode"`
	Errors               []struct {
		DefaultUserMessage string `json:"defaultUserMessage"`
		DeveloperMessage   string `json:"developerMessage"`
		ParameterName      string `json:"parameterName"`
	} `json:"errors"`
}

func parseError(status int, raw []byte) *Error {
	apiErr := &Error{Status: status}

	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apiErr
	}

	for _, entry := range payload.Errors {
		message := strings.TrimSpace(entry.DefaultUserMessage)
		if message == "" {
			message = strings.TrimSpace(entry.DeveloperMessage)
		}
		if message == "" {
			continue
		}
		apiErr.Errors = append(apiErr.Errors, FieldError{
			Parameter: strings.TrimSpace(entry.ParameterName),
			Message:   message,
		})
	}

	switch {
	case len(apiErr.Errors) > 0:
		apiErr.Message = apiErr.Errors[0].Message
	case strings.TrimSpace(payload.DefaultUserMessage) != "":
		apiErr.Message = strings.TrimSpace(payload.DefaultUserMessage)
	case strings.TrimSpace(payload.DeveloperMessage) != "":
		apiErr.Message = strings.TrimSpace(payload.DeveloperMessage)
	}
	return apiErr
}

// UserMessage extracts the backend-provided message from err, or returns
// fallback when err carries none.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
