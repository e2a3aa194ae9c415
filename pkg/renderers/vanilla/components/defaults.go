package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

// builtins lists the bundled controls: partial key for theme overrides,
// then the embedded template.
var builtins = []struct {
	name, partial, file string
	styles              []string
}{
	{NameInput, "forms.input", "input.tmpl", nil},
	{NameTextarea, "forms.textarea", "textarea.tmpl", nil},
	{NameSelect, "forms.select", "select.tmpl", nil},
	{NameMultiSelect, "forms.multiselect", "multiselect.tmpl", []string{"mfadmin-multiselect.css"}},
	{NameBoolean, "forms.checkbox", "boolean.tmpl", nil},
}

// NewDefaultRegistry returns a registry holding the bundled controls.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, b := range builtins {
		registry.MustRegister(b.name, Descriptor{
			Renderer:    fromTemplate(b.partial, "templates/components/"+b.file),
			Stylesheets: b.styles,
		})
	}
	return registry
}

// ResolveName maps a field type onto a component name.
func ResolveName(field model.Field) string {
	switch field.Type {
	case model.FieldTypeText:
		return NameTextarea
	case model.FieldTypeSelect:
		return NameSelect
	case model.FieldTypeMultiSelect:
		return NameMultiSelect
	case model.FieldTypeBoolean:
		return NameBoolean
	default:
		return NameInput
	}
}

// InputType returns the HTML input type for field.
func InputType(field model.Field) string {
	switch field.Type {
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return "number"
	case model.FieldTypeDate:
		return "date"
	default:
		return "text"
	}
}

func fromTemplate(partial, path string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: no template renderer for %s", path)
		}
		name := path
		if override := strings.TrimSpace(data.ThemePartials[partial]); override != "" {
			name = override
		}
		out, err := data.Template.RenderTemplate(name, map[string]any{
			"field":      field,
			"id":         data.ID,
			"value":      data.Value,
			"errors":     data.Errors,
			"input_type": data.InputType,
			"attrs":      validationAttrs(field),
		})
		if err != nil {
			return fmt.Errorf("components: %s: %w", name, err)
		}
		buf.WriteString(out)
		return nil
	}
}

// validationAttrs maps declarative rules onto native HTML constraint
// attributes.
func validationAttrs(field model.Field) map[string]string {
	attrs := map[string]string{}
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin:
			if rule.Params["exclusive"] != "true" {
				attrs["min"] = rule.Params["value"]
			}
		case model.ValidationRuleMax:
			attrs["max"] = rule.Params["value"]
		case model.ValidationRuleMaxLength:
			attrs["maxlength"] = rule.Params["value"]
		case model.ValidationRuleMinLength:
			attrs["minlength"] = rule.Params["value"]
		case model.ValidationRulePattern:
			attrs["pattern"] = rule.Params["pattern"]
		}
	}
	if field.Type == model.FieldTypeNumber {
		attrs["step"] = "any"
	}
	return attrs
}
