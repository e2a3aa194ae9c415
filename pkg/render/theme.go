package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-theme"
)

// DefaultThemeName is the built-in console theme.
const DefaultThemeName = "console"

// DefaultManifest describes the built-in console theme with a light default
// and a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":         "#1f6f5c",
			"surface":       "#ffffff",
			"text":          "#1d2327",
			"muted":         "#6b7280",
			"danger":        "#b42318",
			"success":       "#067647",
			"radius":        "6px",
			"toast-offset":  "1rem",
			"table-stripes": "#f5f7f8",
		},
		Templates: map[string]string{
			"forms.input":       "templates/components/input.tmpl",
			"forms.textarea":    "templates/components/textarea.tmpl",
			"forms.select":      "templates/components/select.tmpl",
			"forms.multiselect": "templates/components/multiselect.tmpl",
			"forms.checkbox":    "templates/components/boolean.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "mfadmin.css",
				"script":     "mfadmin.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":       "#15191c",
					"text":          "#e6e8ea",
					"muted":         "#9aa4ad",
					"table-stripes": "#1d2226",
				},
			},
		},
	}
}

// ResolveTheme validates manifest through a go-theme registry and flattens the
// requested variant into a renderer configuration. Variant tokens, templates
// and asset files override the base entries; an empty variant selects the
// base theme.
func ResolveTheme(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}

	variant = strings.TrimSpace(variant)
	tokens := copyStrings(manifest.Tokens)
	partials := copyStrings(manifest.Templates)
	files := copyStrings(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if variant != "" {
		selected, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", manifest.Name, variant)
		}
		mergeStrings(tokens, selected.Tokens)
		mergeStrings(partials, selected.Templates)
		mergeStrings(files, selected.Assets.Files)
		if selected.Assets.Prefix != "" {
			prefix = selected.Assets.Prefix
		}
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  CSSVars(tokens),
		AssetURL: func(key string) string {
			file := strings.TrimSpace(files[key])
			if file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}, nil
}

// CSSVars derives custom properties from theme tokens ("brand" -> "--brand").
func CSSVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out["--"+key] = value
	}
	return out
}

// CSSVarsStyle renders vars as a deterministic inline style declaration.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(vars[name])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
