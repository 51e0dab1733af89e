package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formsession/pkg/schema"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the pattern the handler is registered under for basePath.
func MountPath(basePath string) string {
	return normaliseBase(basePath) + "/"
}

// RegisterRoutes registers the session handler under basePath on mux and
// returns the registered pattern.
func RegisterRoutes(mux Mux, basePath string, registry *schema.Registry, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, registry, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers a handler under basePath using a
// pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, registry *schema.Registry, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("httpapi: missing mux")
	}
	h, err := HandlerWithOptions(registry, basePath, opts)
	if err != nil {
		return "", err
	}

	pattern := MountPath(basePath)
	if h.base == "" {
		mux.Handle(pattern, h)
	} else {
		mux.Handle(pattern, http.StripPrefix(h.base, h))
	}
	return pattern, nil
}

func normaliseBase(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
