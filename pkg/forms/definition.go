package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

// OptionSource binds a select field to option lists found in a template
// payload.
type OptionSource struct {
	Field string
	// Endpoint is fetched in addition to the definition template. Empty means
	// the definition template itself.
	Endpoint string
	// Results lists dotted paths inside the payload; their lists are
	// concatenated. An empty path selects the payload root.
	Results []string
	// Keys overrides options.DefaultKeys.
	Keys *options.Keys
}

// Definition describes one backend resource and how the console edits it.
type Definition struct {
	Resource   string
	Title      string
	Collection string
	Template   string
	// TemplateQuery lists scope keys forwarded as query parameters to the
	// template endpoint.
	TemplateQuery []string
	Sources       []OptionSource
	Fields        []model.Field
	// Aliases maps alternate input names to canonical field names.
	Aliases map[string]string
	// Compat maps canonical payload keys to alternate keys emitted alongside
	// them for backends that expect the older spelling.
	Compat    map[string]string
	CanUpdate bool
	CanDelete bool

	hydrate  func(Record) Values
	validate func(Values, Mode, FieldErrors)
	payload  func(Values, Mode) map[string]any
}

var scopeParam = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// CollectionPath resolves the collection endpoint for scope.
func (d *Definition) CollectionPath(scope Scope) (string, error) {
	return expandPath(d.Collection, scope)
}

// ItemPath resolves the endpoint of one entity.
func (d *Definition) ItemPath(scope Scope, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: id", ErrMissingScope)
	}
	base, err := d.CollectionPath(scope)
	if err != nil {
		return "", err
	}
	return base + "/" + url.PathEscape(id), nil
}

// TemplatePath resolves the template endpoint; "" when the resource has none.
func (d *Definition) TemplatePath(scope Scope) (string, error) {
	if d.Template == "" {
		return "", nil
	}
	path, err := expandPath(d.Template, scope)
	if err != nil {
		return "", err
	}
	if len(d.TemplateQuery) == 0 {
		return path, nil
	}
	query := url.Values{}
	for _, key := range d.TemplateQuery {
		if value := strings.TrimSpace(scope[key]); value != "" {
			query.Set(key, value)
		}
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}

// Hydrate converts a backend record into editable values, flattening nested
// references to ids. A nil record yields the field defaults.
func (d *Definition) Hydrate(record Record) Values {
	values := Values{}
	for _, field := range d.Fields {
		if field.Default != "" {
			values[field.Name] = field.Default
		}
	}
	if record == nil || d.hydrate == nil {
		return values
	}
	for key, value := range d.hydrate(record) {
		if strings.TrimSpace(value) == "" {
			continue
		}
		values[key] = value
	}
	return values
}

// Canonical returns a copy of values with alias keys folded onto their
// canonical field names. Canonical keys win when both are present.
func (d *Definition) Canonical(values Values) Values {
	out := values.Clone()
	for alias, canonical := range d.Aliases {
		raw, ok := out[alias]
		if !ok {
			continue
		}
		delete(out, alias)
		if strings.TrimSpace(out[canonical]) == "" {
			out[canonical] = raw
		}
	}
	return out
}

// Validate runs the declarative field rules and the resource's cross-field
// checks. Option membership is only enforced when opts holds a list for the
// field.
func (d *Definition) Validate(values Values, mode Mode, opts map[string][]options.Option) FieldErrors {
	values = d.Canonical(values)
	errs := FieldErrors{}
	for _, field := range d.Fields {
		if field.CreateOnly && mode == ModeUpdate {
			continue
		}
		validateField(field, values.Get(field.Name), opts[field.Name], errs)
	}
	if d.validate != nil {
		d.validate(values, mode, errs)
	}
	return errs
}

// Payload builds the request body for mode. When compat is true the keys in
// Compat are duplicated under their alternate names.
func (d *Definition) Payload(values Values, mode Mode, compat bool) map[string]any {
	values = d.Canonical(values)
	body := map[string]any{}
	if d.payload != nil {
		body = d.payload(values, mode)
	}
	if mode == ModeUpdate {
		for _, field := range d.Fields {
			if field.CreateOnly {
				delete(body, field.Name)
			}
		}
	}
	if compat {
		for canonical, alternate := range d.Compat {
			if value, ok := body[canonical]; ok {
				body[alternate] = value
			}
		}
	}
	return body
}

// Model assembles the renderer-facing form model.
func (d *Definition) Model(tpl Template, mode Mode) model.FormModel {
	fields := make([]model.Field, 0, len(d.Fields))
	for _, field := range d.Fields {
		if field.CreateOnly && mode == ModeUpdate {
			continue
		}
		if opts := tpl.Options[field.Name]; len(opts) > 0 {
			field.Options = append([]options.Option(nil), opts...)
		}
		fields = append(fields, field)
	}
	form := model.FormModel{
		ID:     d.Resource,
		Title:  d.Title,
		Fields: fields,
		Metadata: map[string]string{
			"mode": string(mode),
		},
	}
	_ = model.ApplyLabels(nil).Decorate(&form)
	return form
}

func expandPath(pattern string, scope Scope) (string, error) {
	var missing string
	out := scopeParam.ReplaceAllStringFunc(pattern, func(match string) string {
		key := match[1 : len(match)-1]
		value := strings.TrimSpace(scope[key])
		if value == "" {
			missing = key
			return match
		}
		return url.PathEscape(value)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s", ErrMissingScope, missing)
	}
	return out, nil
}

func validateField(field model.Field, value string, opts []options.Option, errs FieldErrors) {
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}

	if value == "" {
		if field.Required {
			errs.Add(field.Name, label+" is required")
		}
		return
	}

	switch field.Type {
	case model.FieldTypeInteger:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			errs.Add(field.Name, label+" must be a whole number")
			return
		}
	case model.FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			errs.Add(field.Name, label+" must be a number")
			return
		}
	case model.FieldTypeDate:
		if _, err := ParseDate(value); err != nil {
			errs.Add(field.Name, label+" must be a valid date")
			return
		}
	case model.FieldTypeSelect:
		if len(opts) > 0 {
			if _, ok := options.Find(opts, value); !ok {
				errs.Add(field.Name, label+" has an unknown selection")
				return
			}
		}
	case model.FieldTypeMultiSelect:
		if len(opts) > 0 {
			for _, entry := range (Values{field.Name: value}).List(field.Name) {
				if _, ok := options.Find(opts, entry); !ok {
					errs.Add(field.Name, label+" has an unknown selection")
					return
				}
			}
		}
	}

	for _, rule := range field.Validations {
		applyRule(field, label, value, rule, errs)
	}
}

func applyRule(field model.Field, label, value string, rule model.ValidationRule, errs FieldErrors) {
	switch rule.Kind {
	case model.ValidationRuleMin, model.ValidationRuleMax:
		limit, err := strconv.ParseFloat(rule.Params["value"], 64)
		if err != nil {
			return
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		exclusive := rule.Params["exclusive"] == "true"
		if rule.Kind == model.ValidationRuleMin && (n < limit || (exclusive && n == limit)) {
			if exclusive {
				errs.Add(field.Name, fmt.Sprintf("%s must be greater than %s", label, rule.Params["value"]))
			} else {
				errs.Add(field.Name, fmt.Sprintf("%s must be at least %s", label, rule.Params["value"]))
			}
		}
		if rule.Kind == model.ValidationRuleMax && (n > limit || (exclusive && n == limit)) {
			errs.Add(field.Name, fmt.Sprintf("%s must be at most %s", label, rule.Params["value"]))
		}
	case model.ValidationRuleMaxLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		if err != nil {
			return
		}
		if len([]rune(value)) > limit {
			errs.Add(field.Name, fmt.Sprintf("%s must be at most %d characters", label, limit))
		}
	case model.ValidationRuleMinLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		if err != nil {
			return
		}
		if len([]rune(value)) < limit {
			errs.Add(field.Name, fmt.Sprintf("%s must be at least %d characters", label, limit))
		}
	case model.ValidationRulePattern:
		expr, err := regexp.Compile(rule.Params["pattern"])
		if err != nil {
			return
		}
		if !expr.MatchString(value) {
			errs.Add(field.Name, label+" has an invalid format")
		}
	}
}
