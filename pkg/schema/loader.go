package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a schema file.
type Document struct {
	Forms []FormSchema `json:"forms" yaml:"forms"`
}

// EncodeDocument writes forms as a schema document that LoadFS accepts.
// format is "yaml" (default) or "json".
func EncodeDocument(forms []FormSchema, format string) ([]byte, error) {
	doc := Document{Forms: forms}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("schema: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("schema: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("schema: encode json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("schema: unsupported document format %q", format)
	}
}

// LoadFS walks fsys and builds a Registry from every JSON/YAML document it
// finds. Files are visited in lexical order and forms keep their declaration
// order, so FormTypes is deterministic. A nil filesystem yields an empty
// registry.
func LoadFS(fsys fs.FS, options ...RegistryOption) (*Registry, error) {
	if fsys == nil {
		return NewRegistry(nil, options...)
	}

	var (
		all     []FormSchema
		sources = make(map[string]string)
	)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		forms, err := ParseDocument(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			id := strings.TrimSpace(form.Type)
			if previous, exists := sources[id]; exists {
				return fmt.Errorf("%w: %q (file %s, first defined in %s)", ErrDuplicateFormType, id, path, previous)
			}
			sources[id] = path
			all = append(all, form)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewRegistry(all, options...)
}

// ParseDocument validates a single schema document and returns its forms in
// declaration order.
func ParseDocument(data []byte, source string) ([]FormSchema, error) {
	if issues := ValidateDocument(data, source); len(issues) > 0 {
		return nil, issuesError(issues)
	}
	_, normalised, err := decodeGeneric(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, source, err)
	}
	forms, err := decodeForms(normalised)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, source, err)
	}
	return forms, nil
}

func decodeForms(normalised []byte) ([]FormSchema, error) {
	var doc Document
	if err := json.Unmarshal(normalised, &doc); err != nil {
		return nil, fmt.Errorf("decode forms: %w", err)
	}
	return doc.Forms, nil
}

func issuesError(issues []Issue) error {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(messages, "; "))
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
