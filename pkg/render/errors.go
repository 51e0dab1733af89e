package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formsession/pkg/session"
)

// FieldError is a validation message paired with the field it belongs to.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// OrderedErrors lists the snapshot's validation errors in schema field order.
// Messages keyed by names the schema does not know are appended in name order
// so nothing is lost; blank messages are dropped.
func OrderedErrors(snapshot session.Snapshot) []FieldError {
	if len(snapshot.Errors) == 0 {
		return nil
	}

	out := make([]FieldError, 0, len(snapshot.Errors))
	seen := make(map[string]struct{}, len(snapshot.Errors))
	for _, field := range snapshot.Fields {
		message := strings.TrimSpace(snapshot.Errors[field.Name])
		seen[field.Name] = struct{}{}
		if message == "" {
			continue
		}
		out = append(out, FieldError{Field: field.Name, Label: field.Label, Message: message})
	}

	var stray []string
	for name := range snapshot.Errors {
		if _, ok := seen[name]; !ok {
			stray = append(stray, name)
		}
	}
	sort.Strings(stray)
	for _, name := range stray {
		message := strings.TrimSpace(snapshot.Errors[name])
		if message == "" {
			continue
		}
		out = append(out, FieldError{Field: name, Label: name, Message: message})
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
