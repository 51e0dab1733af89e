package html_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/html"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...html.Option) *html.Renderer {
	t.Helper()
	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderPage(t *testing.T, renderer *html.Renderer, snapshot session.Snapshot, options render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), snapshot, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderer_Contract(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "html" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_IdlePage(t *testing.T) {
	eng := testsupport.Engine(t)
	out := renderPage(t, newRenderer(t), eng.Snapshot(), render.RenderOptions{
		FormTypes: render.FormTypeOptions(eng.Registry()),
		Action:    "/forms/",
	})

	assertContains(t, out,
		`<title>Form Session</title>`,
		`action="/forms/api/session/form"`,
		`<option value="" selected>Select a form</option>`,
		`<option value="addressInfo">Address Information</option>`,
		`No entries submitted yet.`,
	)
	if strings.Contains(out, "formsession-form") {
		t.Fatalf("idle page must not render a form:\n%s", out)
	}
}

func TestRenderer_FieldsByType(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("addressInfo"))
	testsupport.Fill(t, eng, map[string]string{"state": "Texas", "street": `<b>1 Main</b>`})

	out := renderPage(t, newRenderer(t), eng.Snapshot(), render.RenderOptions{
		FormTypes: render.FormTypeOptions(eng.Registry()),
	})

	assertContains(t, out,
		`<title>Address Information</title>`,
		`<option value="addressInfo" selected>Address Information</option>`,
		`action="/api/session/submit"`,
		`<option value="">Select State</option>`,
		`<option value="Texas" selected>Texas</option>`,
		`<option value="California">California</option>`,
		`value="&lt;b&gt;1 Main&lt;/b&gt;"`,
		`<progress class="formsession-progress" value="50" max="100">`,
	)
	if strings.Contains(out, "<b>1 Main</b>") {
		t.Fatalf("field value was not escaped:\n%s", out)
	}
}

func TestRenderer_InputTypes(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("paymentInfo"))
	res, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := renderPage(t, newRenderer(t), res.Snapshot, render.RenderOptions{})

	assertContains(t, out,
		`id="field-cardNumber" type="text"`,
		`id="field-expiryDate" type="date"`,
		`id="field-cvv" type="password"`,
		`<p class="formsession-error" role="alert">CVV is required</p>`,
		`<li data-field="cardNumber">Card Number is required</li>`,
	)
}

func TestRenderer_EntriesTable(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("userInfo"))
	testsupport.Fill(t, eng, map[string]string{"firstName": "Ann", "lastName": "Lee"})
	res, err := eng.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := renderPage(t, newRenderer(t), res.Snapshot, render.RenderOptions{
		Notice: `<strong>` + session.SubmittedMessage + `</strong><script>alert(1)</script>`,
		Hidden: map[string]string{"csrf": "token-1"},
	})

	assertContains(t, out,
		`<p class="formsession-notice" role="status"><strong>Form submitted successfully!</strong></p>`,
		`<th scope="col" data-column="firstName">First Name</th>`,
		`<tr data-entry-id="entry-1" data-form-type="userInfo">`,
		`<td>Ann</td>`,
		`action="/api/entries/0/recall"`,
		`action="/api/entries/0"`,
		`<input type="hidden" name="_method" value="DELETE">`,
		`<input type="hidden" name="csrf" value="token-1">`,
	)
	if strings.Contains(out, "<script>") {
		t.Fatalf("notice was not sanitised:\n%s", out)
	}
}

func TestRenderer_ThemeVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "--spacing": "8px"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{html.StylesheetAsset: "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	}

	out := renderPage(t, newRenderer(t, html.WithTheme(manifest, "dark")), session.Snapshot{}, render.RenderOptions{})

	assertContains(t, out,
		"--brand: #654321;",
		"--spacing: 8px;",
		`<link rel="stylesheet" href="/assets/themes/acme/theme.css">`,
		`data-theme="acme" data-theme-variant="dark"`,
	)

	if _, err := html.New(html.WithTheme(manifest, "sepia")); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestRenderer_DefaultThemeDarkVariant(t *testing.T) {
	out := renderPage(t, newRenderer(t, html.WithTheme(html.DefaultTheme(), "dark")), session.Snapshot{}, render.RenderOptions{})
	assertContains(t, out, "--color-background: #111827;", "--color-primary: #2563eb;")
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"custom/page.tpl": &fstest.MapFile{Data: []byte(`{{ page.Title }}|{{ page.Progress }}|{% for field in page.Fields %}{{ field.Name }},{% endfor %}`)},
	}
	renderer := newRenderer(t, html.WithTemplatesFS(files), html.WithTemplateName("custom/page.tpl"))

	eng := testsupport.Engine(t, session.WithFormType("userInfo"))
	testsupport.Fill(t, eng, map[string]string{"firstName": "Ann"})

	got := renderPage(t, renderer, eng.Snapshot(), render.RenderOptions{})
	if want := "User Information|33|firstName,lastName,age,"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRenderer_TemplatesDirAndPageTitle(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	tpl := []byte(`{{ page.Title }}|{% for option in page.FormTypes %}{{ option.Type }};{% endfor %}`)
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tpl"), tpl, 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	renderer := newRenderer(t, html.WithTemplatesDir(dir), html.WithPageTitle("Intake"))

	eng := testsupport.Engine(t)
	got := renderPage(t, renderer, eng.Snapshot(), render.RenderOptions{FormTypes: render.FormTypeOptions(eng.Registry())})
	if want := "Intake|userInfo;addressInfo;paymentInfo;"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	if _, err := eng.SelectFormType("paymentInfo"); err != nil {
		t.Fatalf("select: %v", err)
	}
	got = renderPage(t, renderer, eng.Snapshot(), render.RenderOptions{})
	if want := "Payment Information|paymentInfo;"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
