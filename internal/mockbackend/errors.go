package mockbackend

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// errorBody mirrors the backend error envelope.
type errorBody struct {
	DeveloperMessage             string       `json:"developerMessage"`
	HTTPStatusCode               string       `json:"httpStatusCode"`
	DefaultUserMessage           string       `json:"defaultUserMessage"`
	UserMessageGlobalisationCode string       `json:"userMessageGlobalisationCode"`
	Errors                       []errorEntry `json:"errors,omitempty"`
}

type errorEntry struct {
	DeveloperMessage             string `json:"developerMessage"`
	DefaultUserMessage           string `json:"defaultUserMessage"`
	UserMessageGlobalisationCode string `json:"userMessageGlobalisationCode"`
	ParameterName                string `json:"parameterName"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{
		DeveloperMessage:             message,
		HTTPStatusCode:               strconv.Itoa(status),
		DefaultUserMessage:           message,
		UserMessageGlobalisationCode: code,
	})
}

// writeValidation reports per-parameter violations the way the backend does
// for rejected commands.
func writeValidation(w http.ResponseWriter, violations map[string][]string) {
	params := make([]string, 0, len(violations))
	for param := range violations {
		params = append(params, param)
	}
	sort.Strings(params)

	body := errorBody{
		DeveloperMessage:             "Invalid parameter(s) in the request body.",
		HTTPStatusCode:               strconv.Itoa(http.StatusBadRequest),
		DefaultUserMessage:           "Validation errors exist.",
		UserMessageGlobalisationCode: "validation.msg.validation.errors.exist",
	}
	for _, param := range params {
		for _, reason := range violations[param] {
			message := reason
			if param != "" {
				message = fmt.Sprintf("The parameter `%s` is invalid: %s.", param, reason)
			}
			body.Errors = append(body.Errors, errorEntry{
				DeveloperMessage:             message,
				DefaultUserMessage:           message,
				UserMessageGlobalisationCode: "validation.msg." + param + ".invalid",
				ParameterName:                param,
			})
		}
	}
	writeJSON(w, http.StatusBadRequest, body)
}
