package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/model"
)

// Version is reported in the document info block.
const Version = "1.0.0"

var (
	// ErrUnknownResource is returned when no definition is registered under a
	// resource name.
	ErrUnknownResource = errors.New("contract: unknown resource")
	// ErrPayload wraps every schema violation reported by Validate.
	ErrPayload = errors.New("contract: payload rejected")
)

var pathParam = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Contract holds the generated document and the request schema of every
// definition and mode.
type Contract struct {
	doc         *openapi3.T
	definitions map[string]*forms.Definition
	schemas     map[string]*openapi3.Schema
}

// New builds the contract for defs. The resulting document is validated
// before it is returned.
func New(defs ...*forms.Definition) (*Contract, error) {
	c := &Contract{
		doc: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:   "mfadmin console payloads",
				Version: Version,
			},
			Paths: openapi3.NewPaths(),
		},
		definitions: make(map[string]*forms.Definition, len(defs)),
		schemas:     make(map[string]*openapi3.Schema),
	}

	for _, def := range defs {
		if def == nil {
			continue
		}
		if _, exists := c.definitions[def.Resource]; exists {
			return nil, fmt.Errorf("contract: resource %q registered twice", def.Resource)
		}
		c.definitions[def.Resource] = def
		c.addDefinition(def)
	}

	if err := c.doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	return c, nil
}

// Document exposes the generated OpenAPI document.
func (c *Contract) Document() *openapi3.T {
	if c == nil {
		return nil
	}
	return c.doc
}

// MarshalJSON renders the OpenAPI document.
func (c *Contract) MarshalJSON() ([]byte, error) {
	if c == nil || c.doc == nil {
		return nil, errors.New("contract: document is nil")
	}
	return c.doc.MarshalJSON()
}

// Resources lists the registered resource names in order.
func (c *Contract) Resources() []string {
	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the request schema of resource for mode.
func (c *Contract) Schema(resource string, mode forms.Mode) (*openapi3.Schema, bool) {
	schema, ok := c.schemas[schemaKey(resource, mode)]
	return schema, ok
}

// Validate checks payload against the request schema of resource. The
// payload is passed through a JSON round trip first so typed Go values are
// checked the way the backend would see them.
func (c *Contract) Validate(resource string, mode forms.Mode, payload map[string]any) error {
	schema, ok := c.Schema(resource, mode)
	if !ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnknownResource, resource, mode)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("contract: encode payload: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("contract: decode payload: %w", err)
	}
	if err := schema.VisitJSON(decoded, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPayload, resource, err)
	}
	return nil
}

// Violations flattens a Validate error into messages keyed by payload
// property. Messages that cannot be attributed stay under the empty key.
func Violations(err error) map[string][]string {
	if err == nil {
		return nil
	}
	out := make(map[string][]string)
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			addViolation(out, item)
		}
		return out
	}
	addViolation(out, err)
	return out
}

func addViolation(out map[string][]string, err error) {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		path := strings.Join(schemaErr.JSONPointer(), ".")
		out[path] = append(out[path], schemaErr.Reason)
		return
	}
	out[""] = append(out[""], err.Error())
}

func (c *Contract) addDefinition(def *forms.Definition) {
	collection := def.Collection
	item := strings.TrimRight(def.Collection, "/") + "/{id}"

	create := RequestSchema(def, forms.ModeCreate)
	c.schemas[schemaKey(def.Resource, forms.ModeCreate)] = create
	c.operation(collection, http.MethodPost, "create"+operationSuffix(def.Resource), def.Title, create)

	if def.CanUpdate {
		update := RequestSchema(def, forms.ModeUpdate)
		c.schemas[schemaKey(def.Resource, forms.ModeUpdate)] = update
		c.operation(item, http.MethodPut, "update"+operationSuffix(def.Resource), def.Title, update)
	}
	if def.CanDelete {
		c.operation(item, http.MethodDelete, "delete"+operationSuffix(def.Resource), def.Title, nil)
	}
}

func (c *Contract) operation(path, method, id, title string, body *openapi3.Schema) {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = fmt.Sprintf("%s %s", strings.ToLower(method), title)
	op.Tags = []string{title}
	for _, match := range pathParam.FindAllStringSubmatch(path, -1) {
		op.AddParameter(openapi3.NewPathParameter(match[1]).WithSchema(openapi3.NewStringSchema()))
	}
	if body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
		}
	}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("OK").
		WithJSONSchema(resultSchema()))

	pathItem := c.doc.Paths.Value(path)
	if pathItem == nil {
		pathItem = &openapi3.PathItem{}
		c.doc.Paths.Set(path, pathItem)
	}
	pathItem.SetOperation(method, op)
}

// RequestSchema derives the JSON schema of the body def emits in mode.
func RequestSchema(def *forms.Definition, mode forms.Mode) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	var required []string
	for _, field := range def.Fields {
		if field.CreateOnly && mode == forms.ModeUpdate {
			continue
		}
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	for canonical, alternate := range def.Compat {
		if prop, ok := schema.Properties[canonical]; ok {
			schema.WithProperty(alternate, prop.Value)
		}
	}
	schema.WithProperty("locale", openapi3.NewStringSchema())
	schema.WithProperty("dateFormat", openapi3.NewStringSchema())
	if len(required) > 0 {
		schema.WithRequired(required)
	}
	return schema
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case model.FieldTypeInteger:
		schema = openapi3.NewIntegerSchema()
	case model.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case model.FieldTypeBoolean:
		schema = openapi3.NewBoolSchema()
	case model.FieldTypeSelect:
		schema = openapi3.NewOneOfSchema(openapi3.NewIntegerSchema(), openapi3.NewStringSchema())
	case model.FieldTypeMultiSelect:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewSchema())
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Description = field.Description
	applyRules(schema, field)
	return schema
}

func applyRules(schema *openapi3.Schema, field model.Field) {
	numeric := field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber
	for _, rule := range field.Validations {
		value := rule.Params["value"]
		switch rule.Kind {
		case model.ValidationRuleMin:
			if n, ok := parseFloat(value); ok && numeric {
				schema.WithMin(n).WithExclusiveMin(rule.Params["exclusive"] == "true")
			}
		case model.ValidationRuleMax:
			if n, ok := parseFloat(value); ok && numeric {
				schema.WithMax(n)
			}
		case model.ValidationRuleMaxLength:
			if n, ok := parseFloat(value); ok && !numeric {
				schema.WithMaxLength(int64(n))
			}
		case model.ValidationRuleMinLength:
			if n, ok := parseFloat(value); ok && !numeric {
				schema.WithMinLength(int64(n))
			}
		case model.ValidationRulePattern:
			if expr := rule.Params["pattern"]; expr != "" && !numeric {
				schema.WithPattern(expr)
			}
		}
	}
}

func resultSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("resourceId", openapi3.NewIntegerSchema()).
		WithAnyAdditionalProperties()
}

func schemaKey(resource string, mode forms.Mode) string {
	return resource + ":" + string(mode)
}

func operationSuffix(resource string) string {
	var b strings.Builder
	upper := true
	for _, r := range resource {
		if r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}

func parseFloat(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return n, err == nil
}
