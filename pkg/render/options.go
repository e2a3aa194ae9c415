package render

import "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form model. Browsers
	// only submit GET and POST, so renderers translate PUT/DELETE into POST
	// plus a hidden _method input.
	Method string
	// Action overrides the form model endpoint as the submission target.
	Action string
	// Values pre-populates rendered controls keyed by field name.
	Values map[string]string
	// Errors surfaces validation feedback keyed by field name. The empty key
	// and unknown names are rendered as form-level messages.
	Errors map[string][]string
	// Hidden lists extra hidden inputs (scope parameters, method overrides).
	Hidden map[string]string
	// Theme carries resolved tokens and asset URLs.
	Theme *theme.RendererConfig
}
