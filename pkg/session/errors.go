package session

import (
	"errors"

	"github.com/goliatone/go-formsession/pkg/ledger"
	"github.com/goliatone/go-formsession/pkg/schema"
)

var (
	// ErrUnknownFormType is returned when a form type is not registered.
	ErrUnknownFormType = schema.ErrUnknownFormType
	// ErrIndexOutOfRange is returned when a ledger position does not exist.
	ErrIndexOutOfRange = ledger.ErrIndexOutOfRange
	// ErrUnknownField is returned when a value targets a field that the active
	// schema does not declare.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrNoActiveForm is returned by field and submit operations before any
	// form type has been selected.
	ErrNoActiveForm = errors.New("session: no form type selected")
	// ErrRegistryRequired is returned by New when no registry is supplied.
	ErrRegistryRequired = errors.New("session: registry is required")
)
