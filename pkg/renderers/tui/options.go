package tui

import "errors"

var (
	// ErrAborted is returned when the operator interrupts a prompt.
	ErrAborted  = errors.New("tui: aborted")
	ErrNoDriver = errors.New("tui: no prompt driver")
)

// OutputFormat selects how Render serializes the collected values.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText prints one "label: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme prefixes the validation messages printed between prompts.
type Theme struct {
	ErrorPrefix string
}

// SubmitTransformer rewrites the collected values before serialization.
type SubmitTransformer func(map[string]string) (map[string]string, error)

type Option func(*Renderer)

func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) { r.submitTransformer = fn }
}

func WithTheme(theme Theme) Option {
	return func(r *Renderer) { r.theme = theme }
}
