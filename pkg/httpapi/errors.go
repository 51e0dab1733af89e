package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-formsession/pkg/session"
)

// ErrRegistryRequired is returned when a handler is built without a registry.
var ErrRegistryRequired = errors.New("httpapi: registry is required")

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusFor maps engine errors onto HTTP status codes. Errors already carrying
// a status keep it.
func statusFor(err error) int {
	var httpErr HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, session.ErrUnknownFormType), errors.Is(err, session.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoActiveForm):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(err error) error {
	return StatusError{Code: http.StatusBadRequest, Err: err}
}
