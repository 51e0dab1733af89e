package openapi

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formsession/pkg/schema"
)

// OrderExtension lists property names in the order fields should appear.
const OrderExtension = "x-formsession-order"

// TitleExtension overrides the form title derived from the component.
const TitleExtension = "x-formsession-title"

type Option func(*config)

type config struct {
	components []string
	labeler    func(string) string
	validate   bool
}

// WithComponents restricts conversion to the named component schemas, in the
// given order. Unknown names fail the conversion.
func WithComponents(names ...string) Option {
	return func(cfg *config) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.components = append(cfg.components, trimmed)
			}
		}
	}
}

// WithLabeler overrides how labels are derived from property names when a
// property has no title.
func WithLabeler(fn func(string) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.labeler = fn
		}
	}
}

// WithValidation runs kin-openapi document validation before conversion.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}

// FromFile reads an OpenAPI document from disk and converts it.
func FromFile(ctx context.Context, path string, options ...Option) ([]schema.FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return FromData(ctx, data, options...)
}

// FromData converts the component schemas of an OpenAPI document (JSON or
// YAML) into form schemas.
func FromData(ctx context.Context, data []byte, options ...Option) ([]schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	cfg := config{labeler: schema.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	var components openapi3.Schemas
	if doc.Components != nil {
		components = doc.Components.Schemas
	}

	names := cfg.components
	explicit := len(names) > 0
	if !explicit {
		for name := range components {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var forms []schema.FormSchema
	for _, name := range names {
		ref, ok := components[name]
		if !ok || ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}
		form, ok := convertComponent(name, ref.Value, cfg)
		if !ok {
			if explicit {
				return nil, fmt.Errorf("%w: %q has no convertible properties", ErrNoForms, name)
			}
			continue
		}
		forms = append(forms, form)
	}
	if len(forms) == 0 {
		return nil, ErrNoForms
	}
	return forms, nil
}

// Registry converts a document and builds a registry from the result.
func Registry(ctx context.Context, data []byte, options ...Option) (*schema.Registry, error) {
	forms, err := FromData(ctx, data, options...)
	if err != nil {
		return nil, err
	}
	return schema.NewRegistry(forms)
}

func convertComponent(name string, src *openapi3.Schema, cfg config) (schema.FormSchema, bool) {
	if len(src.Properties) == 0 {
		return schema.FormSchema{}, false
	}

	required := make(map[string]bool, len(src.Required))
	for _, field := range src.Required {
		required[field] = true
	}

	form := schema.FormSchema{
		Type:  name,
		Title: stringExtension(src.Extensions, TitleExtension),
	}
	if form.Title == "" {
		form.Title = strings.TrimSpace(src.Title)
	}
	if form.Title == "" {
		form.Title = cfg.labeler(name)
	}

	for _, property := range propertyOrder(src) {
		ref := src.Properties[property]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := convertProperty(property, ref.Value, cfg)
		if !ok {
			continue
		}
		field.Required = required[property]
		form.Fields = append(form.Fields, field)
	}
	if len(form.Fields) == 0 {
		return schema.FormSchema{}, false
	}
	return form, true
}

func convertProperty(name string, src *openapi3.Schema, cfg config) (schema.FieldDescriptor, bool) {
	field := schema.FieldDescriptor{
		Name:  name,
		Label: strings.TrimSpace(src.Title),
	}
	if field.Label == "" {
		field.Label = cfg.labeler(name)
	}

	if len(src.Enum) > 0 {
		field.Type = schema.FieldTypeDropdown
		for _, value := range src.Enum {
			field.Options = append(field.Options, fmt.Sprint(value))
		}
		return field, true
	}

	switch firstSchemaType(src.Type) {
	case openapi3.TypeBoolean:
		field.Type = schema.FieldTypeDropdown
		field.Options = []string{"true", "false"}
	case openapi3.TypeInteger, openapi3.TypeNumber:
		field.Type = schema.FieldTypeNumber
	case openapi3.TypeString, "":
		switch strings.ToLower(src.Format) {
		case "password":
			field.Type = schema.FieldTypePassword
		case "date":
			field.Type = schema.FieldTypeDate
		default:
			field.Type = schema.FieldTypeText
		}
	default:
		return schema.FieldDescriptor{}, false
	}
	return field, true
}

// propertyOrder lists the extension order first, then any remaining
// properties by name.
func propertyOrder(src *openapi3.Schema) []string {
	seen := make(map[string]struct{}, len(src.Properties))
	var order []string
	for _, name := range listExtension(src.Extensions, OrderExtension) {
		if _, ok := src.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	var rest []string
	for name := range src.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

func stringExtension(ext map[string]any, key string) string {
	value, ok := ext[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func listExtension(ext map[string]any, key string) []string {
	switch value := ext[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
