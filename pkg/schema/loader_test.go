package schema_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/schema"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := schema.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	if diff := cmp.Diff([]string{"userInfo", "addressInfo", "paymentInfo"}, reg.FormTypes()); diff != "" {
		t.Fatalf("form types mismatch (-want +got):\n%s", diff)
	}

	address, err := reg.Schema("addressInfo")
	if err != nil {
		t.Fatalf("address schema: %v", err)
	}
	if address.Title != "Address Information" {
		t.Fatalf("title mismatch: %q", address.Title)
	}
	state, ok := address.Field("state")
	if !ok {
		t.Fatalf("state field missing")
	}
	want := schema.FieldDescriptor{
		Name:     "state",
		Type:     schema.FieldTypeDropdown,
		Label:    "State",
		Required: true,
		Options:  []string{"California", "Texas", "New York"},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state descriptor mismatch (-want +got):\n%s", diff)
	}

	payment, _ := reg.Schema("paymentInfo")
	if got := len(payment.RequiredFields()); got != 4 {
		t.Fatalf("expected 4 required payment fields, got %d", got)
	}
}

func TestLoadFS_MultipleDocuments(t *testing.T) {
	reg, err := schema.LoadFS(subDirFS(t, "multi"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "survey", "login"}, reg.FormTypes()); diff != "" {
		t.Fatalf("form types mismatch (-want +got):\n%s", diff)
	}

	contact, _ := reg.Schema("contact")
	phone, ok := contact.Field("phone_number")
	if !ok {
		t.Fatalf("phone_number missing: %#v", contact.Fields)
	}
	if phone.Label != "Phone Number" || phone.Required {
		t.Fatalf("unexpected phone descriptor: %#v", phone)
	}
	if contact.Title != "Contact" {
		t.Fatalf("expected derived title, got %q", contact.Title)
	}

	survey, _ := reg.Schema("survey")
	if survey.Title != "Customer Survey" {
		t.Fatalf("title mismatch: %q", survey.Title)
	}
}

func TestLoadFS_DuplicateFormType(t *testing.T) {
	_, err := schema.LoadFS(subDirFS(t, "duplicate"))
	if !errors.Is(err, schema.ErrDuplicateFormType) {
		t.Fatalf("expected duplicate form type error, got %v", err)
	}
	if !strings.Contains(err.Error(), "one.yaml") {
		t.Fatalf("expected error to name the first file: %v", err)
	}
}

func TestLoadFS_InvalidDocuments(t *testing.T) {
	for _, dir := range []string{"invalid_dropdown", "unknown_type"} {
		t.Run(dir, func(t *testing.T) {
			_, err := schema.LoadFS(subDirFS(t, dir))
			if !errors.Is(err, schema.ErrInvalidSchema) {
				t.Fatalf("expected invalid schema error, got %v", err)
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	reg, err := schema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reg.Empty() {
		t.Fatalf("expected empty registry")
	}
}

func TestValidateDocument(t *testing.T) {
	valid := []byte(`{"forms":[{"type":"a","fields":[{"name":"x","type":"text"}]}]}`)
	if issues := schema.ValidateDocument(valid, "valid.json"); len(issues) != 0 {
		t.Fatalf("expected no issues, got %#v", issues)
	}

	cases := map[string][]byte{
		"empty":            []byte("   "),
		"not a document":   []byte("::: nope"),
		"missing forms":    []byte(`{"schemas": []}`),
		"extra property":   []byte(`{"forms":[{"type":"a","fields":[{"name":"x","type":"text","min":1}]}]}`),
		"no fields":        []byte(`{"forms":[{"type":"a","fields":[]}]}`),
		"duplicate fields": []byte(`{"forms":[{"type":"a","fields":[{"name":"x","type":"text"},{"name":"x","type":"date"}]}]}`),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			issues := schema.ValidateDocument(doc, "doc.json")
			if len(issues) == 0 {
				t.Fatalf("expected issues")
			}
			for _, issue := range issues {
				if issue.Source != "doc.json" || issue.Message == "" {
					t.Fatalf("issue missing source or message: %#v", issue)
				}
			}
		})
	}
}

func TestParseDocument_PreservesOrder(t *testing.T) {
	doc := []byte(`
forms:
  - type: b
    fields:
      - {name: z, type: text}
      - {name: a, type: number}
  - type: a
    fields:
      - {name: m, type: date}
`)
	forms, err := schema.ParseDocument(doc, "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var got []string
	for _, form := range forms {
		got = append(got, form.Type+":"+strings.Join(form.FieldNames(), ","))
	}
	if diff := cmp.Diff([]string{"b:z,a", "a:m"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	base := os.DirFS(testdataRoot())
	fsys, err := fs.Sub(base, subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

func TestEncodeDocument_ReloadsThroughParser(t *testing.T) {
	reg, err := schema.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	for _, format := range []string{"yaml", "json"} {
		data, err := schema.EncodeDocument(reg.Schemas(), format)
		if err != nil {
			t.Fatalf("encode %s: %v", format, err)
		}
		forms, err := schema.ParseDocument(data, "encoded."+format)
		if err != nil {
			t.Fatalf("parse %s: %v\n%s", format, err, data)
		}
		if diff := cmp.Diff(reg.Schemas(), forms); diff != "" {
			t.Fatalf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
	}

	if _, err := schema.EncodeDocument(nil, "toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
