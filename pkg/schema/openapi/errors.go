package openapi

import "errors"

var (
	// ErrEmptyDocument is returned when no document bytes were supplied.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
	// ErrNoForms is returned when no component schema converts into a form.
	ErrNoForms = errors.New("openapi: no convertible component schemas")
	// ErrUnknownComponent is returned when a requested component is missing.
	ErrUnknownComponent = errors.New("openapi: unknown component schema")
)
