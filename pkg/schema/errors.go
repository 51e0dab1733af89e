package schema

import "errors"

var (
	// ErrUnknownFormType is returned when a lookup names a form type that is not
	// registered.
	ErrUnknownFormType = errors.New("schema: unknown form type")
	// ErrInvalidSchema signals a schema that breaks a structural invariant
	// (duplicate field names, dropdowns without options, unsupported types).
	ErrInvalidSchema = errors.New("schema: invalid schema")
	// ErrDuplicateFormType is returned when two schemas share an identifier.
	ErrDuplicateFormType = errors.New("schema: duplicate form type")
)
