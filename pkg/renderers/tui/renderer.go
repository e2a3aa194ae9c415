package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/options"
	"github.com/goliatone/go-mfadmin/pkg/render"
)

const dateLayout = "2006-01-02"

// noneLabel is offered first on optional selects so a value can be cleared.
const noneLabel = "(none)"

// Renderer implements render.Renderer for terminal sessions. Each field of
// the form is prompted in order and the collected values are serialized in
// the configured output format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			ErrorPrefix: "! ",
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

var _ render.Renderer = (*Renderer)(nil)

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every field and serializes the collected values.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

// Collect prompts every field of form and returns the raw values keyed by
// field name, ready to hand to the form engine. opts.Values seeds defaults
// and opts.Errors is printed before the affected prompt.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || r.driver == nil {
		return nil, ErrNoDriver
	}

	mapped := render.MapErrorPayload(form, opts.Errors)
	for _, message := range mapped.Form {
		r.printError(ctx, message)
	}

	values := make(map[string]string, len(form.Fields))
	for key, value := range opts.Values {
		values[key] = value
	}

	for _, field := range form.Fields {
		for _, message := range mapped.Fields[field.Name] {
			r.printError(ctx, fmt.Sprintf("%s: %s", displayLabel(field), message))
		}
		value, err := r.promptField(ctx, field, values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current string) (string, error) {
	if current == "" {
		current = field.Default
	}
	rules := collectValidationRules(field)

	switch field.Type {
	case model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field, current)
	case model.FieldTypeSelect:
		if len(field.Options) > 0 {
			return r.promptSelect(ctx, field, current, rules)
		}
	case model.FieldTypeMultiSelect:
		if len(field.Options) > 0 {
			return r.promptMultiSelect(ctx, field, current, rules)
		}
	case model.FieldTypeText:
		return r.promptTextArea(ctx, field, current, rules)
	}
	return r.promptInput(ctx, field, current, rules)
}

func (r *Renderer) promptInput(ctx context.Context, field model.Field, current string, rules validationRules) (string, error) {
	label := displayLabel(field)
	secret := strings.EqualFold(field.Metadata["cli.secret"], "true")
	check := func(value string) error {
		return rules.validate(field.Type, value)
	}

	for {
		cfg := InputConfig{
			Message: label,
			Default: current,
			Help:    displayHelp(field),
		}
		var (
			response string
			err      error
		)
		if secret {
			response, err = r.driver.Password(ctx, cfg)
		} else {
			response, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return "", err
		}
		response = strings.TrimSpace(response)
		if err := check(response); err != nil {
			r.printError(ctx, fmt.Sprintf("Invalid %s: %v", label, err))
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.Field, current string, rules validationRules) (string, error) {
	label := displayLabel(field)
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if err := rules.validate(field.Type, response); err != nil {
			r.printError(ctx, fmt.Sprintf("Invalid %s: %v", label, err))
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, current string) (string, error) {
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: truthy(current),
		Help:    displayHelp(field),
	})
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(resp), nil
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, current string, rules validationRules) (string, error) {
	label := displayLabel(field)
	choices := field.Options
	names := optionLabels(choices)
	offset := 0
	if !rules.required {
		names = append([]string{noneLabel}, names...)
		offset = 1
	}
	defaultIdx := -1
	if idx := optionIndex(choices, current); idx >= 0 {
		defaultIdx = idx + offset
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      names,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(names) {
			r.printError(ctx, fmt.Sprintf("Invalid %s selection", label))
			continue
		}
		if idx < offset {
			return "", nil
		}
		return choices[idx-offset].ID, nil
	}
}

func (r *Renderer) promptMultiSelect(ctx context.Context, field model.Field, current string, rules validationRules) (string, error) {
	label := displayLabel(field)
	choices := field.Options
	defaults := make([]int, 0)
	for _, id := range splitList(current) {
		if idx := optionIndex(choices, id); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(choices),
			Defaults: defaults,
			Help:     displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		ids := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(choices) {
				ids = append(ids, choices[idx].ID)
			}
		}
		if rules.required && len(ids) == 0 {
			r.printError(ctx, fmt.Sprintf("Invalid %s: required", label))
			continue
		}
		return strings.Join(ids, ","), nil
	}
}

func (r *Renderer) printError(ctx context.Context, message string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}
	return b.String()
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func displayHelp(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	return field.Description
}

func optionLabels(opts []options.Option) []string {
	out := make([]string, len(opts))
	for i, opt := range opts {
		out[i] = opt.Name
		if out[i] == "" {
			out[i] = opt.ID
		}
	}
	return out
}

func optionIndex(opts []options.Option, id string) int {
	if id == "" {
		return -1
	}
	for i, opt := range opts {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

type validationRules struct {
	required     bool
	min          *float64
	max          *float64
	minExclusive bool
	minLen       *int
	maxLen       *int
	pattern      *regexp.Regexp
}

func collectValidationRules(field model.Field) validationRules {
	rules := validationRules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleRequired:
			rules.required = true
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.min = &val
				rules.minExclusive = v.Params["exclusive"] == "true"
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	return rules
}

func (r validationRules) validate(kind model.FieldType, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if r.required {
			return errors.New("required")
		}
		return nil
	}
	switch kind {
	case model.FieldTypeInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.New("expected a whole number")
		}
		return r.validateNumber(float64(n))
	case model.FieldTypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.New("expected a number")
		}
		return r.validateNumber(n)
	case model.FieldTypeDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return errors.New("expected a date as yyyy-mm-dd")
		}
		return nil
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	return nil
}

func (r validationRules) validateNumber(v float64) error {
	if r.min != nil {
		if r.minExclusive && v <= *r.min {
			return fmt.Errorf("must be greater than %v", *r.min)
		}
		if v < *r.min {
			return fmt.Errorf("min %v", *r.min)
		}
	}
	if r.max != nil && v > *r.max {
		return fmt.Errorf("max %v", *r.max)
	}
	return nil
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
