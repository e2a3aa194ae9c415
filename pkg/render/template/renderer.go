// Package template is the engine seam between the HTML renderers and the
// template library that executes their markup.
package template

import "io"

// TemplateRenderer executes named or inline templates. Every Render variant
// returns the output and also copies it to out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(src string, data any, out ...io.Writer) (string, error)
	// RegisterFilter exposes fn to templates as {{ value|name:param }}.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext merges data into what every template sees.
	GlobalContext(data any) error
}
