package schema

import (
	"fmt"
	"slices"
	"strings"
)

// FieldType enumerates the supported input kinds. The type only drives how a
// field is rendered; values are always stored as strings.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeDate     FieldType = "date"
	FieldTypeDropdown FieldType = "dropdown"
)

// FieldTypes lists every supported FieldType in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypePassword,
		FieldTypeDate,
		FieldTypeDropdown,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return slices.Contains(FieldTypes(), t)
}

// FieldDescriptor describes a single input of a form.
type FieldDescriptor struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

func (f FieldDescriptor) clone() FieldDescriptor {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// FormSchema is the ordered list of fields registered under a form type.
type FormSchema struct {
	Type   string            `json:"type" yaml:"type"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []FieldDescriptor `json:"fields" yaml:"fields"`
}

// Field returns the descriptor named name.
func (s FormSchema) Field(name string) (FieldDescriptor, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field.clone(), true
		}
	}
	return FieldDescriptor{}, false
}

// HasField reports whether the schema declares a field called name.
func (s FormSchema) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// FieldNames returns the field names in schema order.
func (s FormSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// RequiredFields returns the descriptors flagged as required, in schema order.
func (s FormSchema) RequiredFields() []FieldDescriptor {
	var out []FieldDescriptor
	for _, field := range s.Fields {
		if field.Required {
			out = append(out, field.clone())
		}
	}
	return out
}

// Clone returns a deep copy of the schema.
func (s FormSchema) Clone() FormSchema {
	out := FormSchema{
		Type:  s.Type,
		Title: s.Title,
	}
	if len(s.Fields) > 0 {
		out.Fields = make([]FieldDescriptor, len(s.Fields))
		for idx, field := range s.Fields {
			out.Fields[idx] = field.clone()
		}
	}
	return out
}

// Validate checks the structural invariants of the schema: a non-empty form
// type, at least one field, unique non-empty field names, supported field
// types, and options present exactly when the field is a dropdown.
func (s FormSchema) Validate() error {
	formType := strings.TrimSpace(s.Type)
	if formType == "" {
		return fmt.Errorf("%w: form type is required", ErrInvalidSchema)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: form %q declares no fields", ErrInvalidSchema, formType)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: form %q field %d has an empty name", ErrInvalidSchema, formType, idx)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: form %q defines duplicate field %q", ErrInvalidSchema, formType, name)
		}
		seen[name] = struct{}{}

		if !field.Type.Valid() {
			return fmt.Errorf("%w: form %q field %q has unsupported type %q", ErrInvalidSchema, formType, name, field.Type)
		}
		switch {
		case field.Type == FieldTypeDropdown && len(field.Options) == 0:
			return fmt.Errorf("%w: form %q dropdown %q has no options", ErrInvalidSchema, formType, name)
		case field.Type != FieldTypeDropdown && len(field.Options) > 0:
			return fmt.Errorf("%w: form %q field %q declares options but is not a dropdown", ErrInvalidSchema, formType, name)
		}
	}
	return nil
}

// normalise trims identifiers and fills blank labels/titles using labeler.
func (s FormSchema) normalise(labeler func(string) string) FormSchema {
	out := s.Clone()
	out.Type = strings.TrimSpace(out.Type)
	out.Title = strings.TrimSpace(out.Title)
	if out.Title == "" && labeler != nil {
		out.Title = labeler(out.Type)
	}
	for idx := range out.Fields {
		field := &out.Fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		field.Type = FieldType(strings.ToLower(strings.TrimSpace(string(field.Type))))
		field.Label = strings.TrimSpace(field.Label)
		if field.Label == "" && labeler != nil {
			field.Label = labeler(field.Name)
		}
	}
	return out
}
