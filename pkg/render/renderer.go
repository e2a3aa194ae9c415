package render

import (
	"context"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

// Renderer turns an entity form into output for one front end: HTML for the
// console, prompts for the terminal client.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
