package model

import "github.com/goliatone/go-mfadmin/pkg/options"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString      FieldType = "string"
	FieldTypeText        FieldType = "text"
	FieldTypeInteger     FieldType = "integer"
	FieldTypeNumber      FieldType = "number"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeDate        FieldType = "date"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single declarative constraint. Numeric bounds
// and length limits encode their threshold in Params["value"]; pattern rules
// keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside an entity form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     string            `json:"default,omitempty"`
	Options     []options.Option  `json:"options,omitempty"`
	CreateOnly  bool              `json:"createOnly,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FormModel is what renderers consume.
type FormModel struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns the field named name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Min returns a min rule.
func Min(value string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMin, Params: map[string]string{"value": value}}
}

// Max returns a max rule.
func Max(value string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMax, Params: map[string]string{"value": value}}
}

// MaxLength returns a maxLength rule.
func MaxLength(value string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": value}}
}

// Pattern returns a pattern rule.
func Pattern(expr string) ValidationRule {
	return ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": expr}}
}
