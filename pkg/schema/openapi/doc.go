// Package openapi builds form schemas from the component schemas of an
// OpenAPI 3 document.
//
// Every object schema under components.schemas becomes one form type named
// after its component key. Properties map to fields:
//
//	enum (any type)          -> dropdown, options in declaration order
//	boolean                  -> dropdown with "true" and "false"
//	integer, number          -> number
//	string, format password  -> password
//	string, format date      -> date
//	string                   -> text
//
// Object and array properties have no field counterpart and are skipped.
// Field order follows the x-formsession-order extension when present and the
// property name otherwise. External references are never resolved.
package openapi
