package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const metaSchemaURL = "https://github.com/goliatone/go-formsession/schema/forms.schema.json"

//go:embed forms.schema.json
var metaSchemaJSON []byte

var (
	metaSchemaOnce sync.Once
	metaSchema     *jsonschema.Schema
	metaSchemaErr  error
)

// Issue describes a problem found while validating a schema document.
type Issue struct {
	Source  string `json:"source,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Source != "" {
		b.WriteString(i.Source)
		b.WriteString(": ")
	}
	if i.Path != "" {
		b.WriteString(i.Path)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ValidateDocument checks a JSON or YAML schema document against the bundled
// meta-schema and the registry invariants. A nil result means the document can
// be loaded.
func ValidateDocument(data []byte, source string) []Issue {
	value, normalised, err := decodeGeneric(data)
	if err != nil {
		return []Issue{{Source: source, Message: err.Error()}}
	}

	if issues := validateAgainstMetaSchema(value, source); len(issues) > 0 {
		return issues
	}

	forms, err := decodeForms(normalised)
	if err != nil {
		return []Issue{{Source: source, Message: err.Error()}}
	}
	if _, err := NewRegistry(forms); err != nil {
		return []Issue{{Source: source, Message: strings.TrimPrefix(err.Error(), "schema: ")}}
	}
	return nil
}

// decodeGeneric parses JSON or YAML into a JSON-compatible value and returns
// the canonical JSON encoding alongside it.
func decodeGeneric(data []byte) (any, []byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, errors.New("document is empty")
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return nil, nil, errors.New("invalid JSON or YAML")
		}
	}

	normalised, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("normalise document: %w", err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(normalised))
	if err != nil {
		return nil, nil, fmt.Errorf("normalise document: %w", err)
	}
	return value, normalised, nil
}

func validateAgainstMetaSchema(value any, source string) []Issue {
	compiled, err := compiledMetaSchema()
	if err != nil {
		return []Issue{{Source: source, Message: fmt.Sprintf("meta-schema: %v", err)}}
	}

	err = compiled.Validate(value)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []Issue{{Source: source, Message: err.Error()}}
	}

	var issues []Issue
	output := validationErr.BasicOutput()
	if output != nil {
		for _, unit := range output.Errors {
			if unit.Error == nil {
				continue
			}
			message := strings.TrimSpace(fmt.Sprint(unit.Error))
			if message == "" {
				continue
			}
			issues = append(issues, Issue{
				Source:  source,
				Path:    unit.InstanceLocation,
				Message: message,
			})
		}
	}
	if len(issues) == 0 {
		return []Issue{{Source: source, Message: validationErr.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return issues
}

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metaSchemaJSON))
		if err != nil {
			metaSchemaErr = fmt.Errorf("parse: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(metaSchemaURL, doc); err != nil {
			metaSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		metaSchema, metaSchemaErr = compiler.Compile(metaSchemaURL)
	})
	return metaSchema, metaSchemaErr
}
