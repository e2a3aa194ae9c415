// Package components holds the per-field controls of the vanilla renderer.
package components

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-mfadmin/pkg/model"
	rendertemplate "github.com/goliatone/go-mfadmin/pkg/render/template"
)

// Built-in control names.
const (
	NameInput       = "input"
	NameTextarea    = "textarea"
	NameSelect      = "select"
	NameMultiSelect = "multiselect"
	NameBoolean     = "boolean"
)

// Renderer writes the control markup for one field into buf.
type Renderer func(buf *bytes.Buffer, field model.Field, data ComponentData) error

// ComponentData carries the per-field state a control renders.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ID is the control id the surrounding label points at.
	ID    string
	Value string
	// Errors are already sanitized.
	Errors    []string
	InputType string
	// ThemePartials maps partial keys (forms.input, ...) to template paths.
	ThemePartials map[string]string
}

// Descriptor is a control plus the stylesheets it depends on.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
}

// Registry maps control names to descriptors. Registering a name twice
// replaces the earlier descriptor.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

func New() *Registry {
	return &Registry{entries: map[string]Descriptor{}}
}

func (r *Registry) Register(name string, d Descriptor) error {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "":
		return errors.New("components: name is required")
	case d.Renderer == nil:
		return fmt.Errorf("components: %q has no renderer", name)
	}
	d.Name = name
	d.Stylesheets = slices.Clone(d.Stylesheets)

	r.mu.Lock()
	r.entries[name] = d
	r.mu.Unlock()
	return nil
}

func (r *Registry) MustRegister(name string, d Descriptor) {
	if err := r.Register(name, d); err != nil {
		panic(err)
	}
}

// Descriptor returns a copy of the named descriptor.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	d, ok := r.entries[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	d.Stylesheets = slices.Clone(d.Stylesheets)
	return d, ok
}

// Stylesheets collects the stylesheets of the named controls, first seen
// first. Unknown names are skipped.
func (r *Registry) Stylesheets(names []string) []string {
	var out []string
	for _, name := range names {
		d, ok := r.Descriptor(name)
		if !ok {
			continue
		}
		for _, href := range d.Stylesheets {
			if href != "" && !slices.Contains(out, href) {
				out = append(out, href)
			}
		}
	}
	return out
}
