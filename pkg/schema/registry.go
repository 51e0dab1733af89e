package schema

import "fmt"

// Registry maps form-type identifiers to schemas. It is safe for concurrent
// readers; nothing mutates it after construction.
type Registry struct {
	order   []string
	schemas map[string]FormSchema
}

// RegistryOption configures registry construction.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the function used to derive missing labels and titles.
// Passing nil leaves blank labels untouched.
func WithLabeler(labeler func(string) string) RegistryOption {
	return func(opts *registryOptions) {
		opts.labeler = labeler
	}
}

// NewRegistry validates and registers the supplied schemas. Registration order
// is preserved by FormTypes.
func NewRegistry(schemas []FormSchema, options ...RegistryOption) (*Registry, error) {
	cfg := registryOptions{labeler: DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	reg := &Registry{
		order:   make([]string, 0, len(schemas)),
		schemas: make(map[string]FormSchema, len(schemas)),
	}
	for _, raw := range schemas {
		normalised := raw.normalise(cfg.labeler)
		if err := normalised.Validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.schemas[normalised.Type]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFormType, normalised.Type)
		}
		reg.schemas[normalised.Type] = normalised
		reg.order = append(reg.order, normalised.Type)
	}
	return reg, nil
}

// MustRegistry panics when NewRegistry fails. Useful for init-time wiring.
func MustRegistry(schemas []FormSchema, options ...RegistryOption) *Registry {
	reg, err := NewRegistry(schemas, options...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Schema returns a copy of the schema registered under formType. Lookups match
// the registered identifier exactly.
func (r *Registry) Schema(formType string) (FormSchema, error) {
	if r == nil {
		return FormSchema{}, fmt.Errorf("%w: %q", ErrUnknownFormType, formType)
	}
	found, ok := r.schemas[formType]
	if !ok {
		return FormSchema{}, fmt.Errorf("%w: %q", ErrUnknownFormType, formType)
	}
	return found.Clone(), nil
}

// Has reports whether formType is registered.
func (r *Registry) Has(formType string) bool {
	if r == nil {
		return false
	}
	_, ok := r.schemas[formType]
	return ok
}

// FormTypes returns the registered identifiers in registration order.
func (r *Registry) FormTypes() []string {
	if r == nil || len(r.order) == 0 {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Schemas returns copies of every schema in registration order.
func (r *Registry) Schemas() []FormSchema {
	if r == nil || len(r.order) == 0 {
		return nil
	}
	out := make([]FormSchema, 0, len(r.order))
	for _, formType := range r.order {
		out = append(out, r.schemas[formType].Clone())
	}
	return out
}

// Len reports how many form types are registered.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Empty reports whether the registry holds no schemas.
func (r *Registry) Empty() bool {
	return r.Len() == 0
}
