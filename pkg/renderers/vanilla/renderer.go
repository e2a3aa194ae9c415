package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/render"
	rendertemplate "github.com/goliatone/go-mfadmin/pkg/render/template"
	gotemplate "github.com/goliatone/go-mfadmin/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mfadmin/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	assetPrefix      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithAssetPrefix sets the URL prefix component stylesheets are served under.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// Renderer produces the console HTML: entity forms, list tables, toast
// stacks and the surrounding layout.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	assetPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), assetPrefix: "/assets"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry, assetPrefix: cfg.assetPrefix}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML form for form. Browsers only submit POST, so any
// other method is carried in a hidden _method input.
func (r *Renderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	mapped := render.MapErrorPayload(form, opts.Errors)
	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		name := components.ResolveName(field)
		descriptor, ok := r.registry.Descriptor(name)
		if !ok {
			return nil, fmt.Errorf("vanilla renderer: component %q not registered for field %q", name, field.Name)
		}
		messages := sanitizeMessages(mapped.Fields[field.Name])
		var control bytes.Buffer
		err := descriptor.Renderer(&control, field, components.ComponentData{
			Template:      r.templates,
			ID:            controlID(field.Name),
			Value:         valueFor(field, opts.Values),
			Errors:        messages,
			InputType:     components.InputType(field),
			ThemePartials: partials,
		})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
		}
		label := field.Label
		if label == "" {
			label = model.DefaultLabeler(field.Name)
		}
		fields = append(fields, map[string]any{
			"name":        field.Name,
			"id":          controlID(field.Name),
			"label_id":    labelID(field.Name),
			"label":       label,
			"required":    field.Required,
			"description": field.Description,
			"control":     control.String(),
			"errors":      messages,
		})
	}

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = strings.ToUpper(strings.TrimSpace(form.Method))
	}
	action := strings.TrimSpace(opts.Action)
	if action == "" {
		action = form.Endpoint
	}
	hidden := render.SortedHiddenFields(render.MergeHiddenFields(opts.Hidden, render.MethodOverride(method)))

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":        form,
		"fields":      fields,
		"action":      action,
		"hidden":      hiddenContext(hidden),
		"form_errors": sanitizeMessages(mapped.Form),
		"classes":     chromeClasses(),
		"theme_style": themeStyle(opts.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderTable produces a list page.
func (r *Renderer) RenderTable(_ context.Context, view TableView) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate("templates/table.tmpl", map[string]any{
		"view":    view,
		"hidden":  hiddenContext(render.SortedHiddenFields(view.Hidden)),
		"classes": chromeClasses(),
		"span":    len(view.Columns) + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render table: %w", err)
	}
	return []byte(result), nil
}

// RenderToasts produces the toast stack for the visible entries.
func (r *Renderer) RenderToasts(toasts []notify.Toast) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate("templates/toasts.tmpl", map[string]any{
		"toasts": toastContext(toasts),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render toasts: %w", err)
	}
	return []byte(result), nil
}

// RenderLayout wraps an already rendered body into the console chrome.
func (r *Renderer) RenderLayout(_ context.Context, layout Layout) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	toasts, err := r.RenderToasts(layout.Toasts)
	if err != nil {
		return nil, err
	}

	stylesheet := r.assetPrefix + "/" + StylesheetName
	script := r.assetPrefix + "/" + ScriptName
	if layout.Theme != nil && layout.Theme.AssetURL != nil {
		if url := layout.Theme.AssetURL("stylesheet"); url != "" {
			stylesheet = url
		}
		if url := layout.Theme.AssetURL("script"); url != "" {
			script = url
		}
	}

	result, err := r.templates.RenderTemplate("templates/layout.tmpl", map[string]any{
		"title":       layout.Title,
		"nav":         layout.Nav,
		"body":        layout.Body,
		"toasts":      string(toasts),
		"stylesheet":  stylesheet,
		"stylesheets": layout.Stylesheets,
		"script":      script,
		"stream_url":  layout.StreamURL,
		"theme_style": themeStyle(layout.Theme),
		"theme_name":  themeName(layout.Theme),
		"classes":     chromeClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render layout: %w", err)
	}
	return []byte(result), nil
}

// Stylesheets returns the component stylesheet URLs form needs.
func (r *Renderer) Stylesheets(form model.FormModel) []string {
	names := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		names = append(names, components.ResolveName(field))
	}
	files := r.registry.Stylesheets(names)
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, r.assetPrefix+"/"+file)
	}
	return out
}

func valueFor(field model.Field, values map[string]string) string {
	if value, ok := values[field.Name]; ok {
		return value
	}
	return field.Default
}

func hiddenContext(fields []render.HiddenField) []map[string]string {
	out := make([]map[string]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func toastContext(toasts []notify.Toast) []map[string]string {
	out := make([]map[string]string, 0, len(toasts))
	for _, toast := range toasts {
		out = append(out, map[string]string{
			"id":      toast.ID,
			"type":    string(toast.Kind),
			"message": SanitizeMessage(toast.Message),
		})
	}
	return out
}

func themeStyle(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	vars := cfg.CSSVars
	if len(vars) == 0 {
		vars = render.CSSVars(cfg.Tokens)
	}
	return render.CSSVarsStyle(vars)
}

func themeName(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	if cfg.Variant != "" {
		return cfg.Theme + "-" + cfg.Variant
	}
	return cfg.Theme
}
