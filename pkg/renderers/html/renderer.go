// Package html renders session snapshots as a self-contained HTML page: the
// form-type selector, the active form with its errors and progress, and the
// submitted-entries table with per-row edit and delete actions.
package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

const defaultPageTitle = "Form Session"

type Option func(*config)

type config struct {
	templateFS   fs.FS
	manifest     *theme.Manifest
	variant      string
	pageTitle    string
	templateName string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/page.tpl unless WithTemplateName says otherwise.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateName overrides the page template path inside the bundle.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.templateName = trimmed
		}
	}
}

// WithTheme applies a go-theme manifest. Tokens become CSS custom properties
// and the manifest's formsession.stylesheet asset is linked from the page.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(cfg *config) {
		cfg.manifest = manifest
		cfg.variant = variant
	}
}

// WithPageTitle sets the document title used while no form is selected.
func WithPageTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.pageTitle = trimmed
		}
	}
}

type Renderer struct {
	mu           sync.RWMutex
	templateSet  *pongo2.TemplateSet
	templates    map[string]*pongo2.Template
	templateName string
	pageTitle    string
	theme        themeContext
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		pageTitle:    defaultPageTitle,
		templateName: pageTemplate,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	themeCtx, err := resolveTheme(cfg.manifest, cfg.variant)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		templateSet:  pongo2.NewSet("formsession", pongo2.NewFSLoader(cfg.templateFS)),
		templates:    make(map[string]*pongo2.Template),
		templateName: cfg.templateName,
		pageTitle:    cfg.pageTitle,
		theme:        themeCtx,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, snapshot session.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templateSet == nil {
		return nil, errors.New("html renderer: renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := r.getTemplate(r.templateName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context{"page": r.buildPage(snapshot, options)}, &buf); err != nil {
		return nil, fmt.Errorf("html renderer: execute template %q: %w", r.templateName, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) getTemplate(path string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[path]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := r.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html renderer: load template %q: %w", path, err)
	}
	r.templates[path] = tmpl
	return tmpl, nil
}

type pageView struct {
	Title     string
	Base      string
	Active    string
	FormTypes []formTypeView
	Fields    []fieldView
	Errors    []render.FieldError
	Progress  int
	Notice    string
	Hidden    []render.HiddenField
	Table     tableView
	Theme     themeContext
}

type formTypeView struct {
	Type     string
	Title    string
	Selected bool
}

type fieldView struct {
	Name        string
	Label       string
	Type        string
	InputType   string
	Required    bool
	Value       string
	Error       string
	Placeholder string
	Options     []optionView
}

type optionView struct {
	Value    string
	Selected bool
}

type tableView struct {
	Columns []render.Column
	Rows    []rowView
}

type rowView struct {
	Position int
	ID       string
	FormType string
	Cells    []string
	Delete   render.HiddenField
}

func (r *Renderer) buildPage(snapshot session.Snapshot, options render.RenderOptions) pageView {
	page := pageView{
		Title:    r.pageTitle,
		Base:     strings.TrimRight(strings.TrimSpace(options.Action), "/"),
		Active:   snapshot.ActiveFormType,
		Errors:   render.OrderedErrors(snapshot),
		Progress: snapshot.Progress,
		Notice:   sanitizeNotice(options.Notice),
		Hidden:   render.SortedHiddenFields(options.Hidden),
		Theme:    r.theme,
	}
	if snapshot.Title != "" {
		page.Title = snapshot.Title
	}

	formTypes := options.FormTypes
	if len(formTypes) == 0 && !snapshot.Idle() {
		formTypes = []render.FormTypeOption{{Type: snapshot.ActiveFormType, Title: snapshot.Title}}
	}
	for _, option := range formTypes {
		title := option.Title
		if title == "" {
			title = option.Type
		}
		page.FormTypes = append(page.FormTypes, formTypeView{
			Type:     option.Type,
			Title:    title,
			Selected: option.Type == snapshot.ActiveFormType,
		})
	}

	for _, field := range snapshot.Fields {
		page.Fields = append(page.Fields, newFieldView(field, snapshot))
	}

	table := render.LedgerTable(snapshot)
	page.Table.Columns = table.Columns
	deleteField := render.MethodOverride(http.MethodDelete)
	for _, row := range table.Rows {
		page.Table.Rows = append(page.Table.Rows, rowView{
			Position: row.Position,
			ID:       row.ID,
			FormType: row.FormType,
			Cells:    row.Cells,
			Delete:   deleteField,
		})
	}
	return page
}

func newFieldView(field schema.FieldDescriptor, snapshot session.Snapshot) fieldView {
	view := fieldView{
		Name:     field.Name,
		Label:    field.Label,
		Type:     string(field.Type),
		Required: field.Required,
		Value:    snapshot.Value(field.Name),
		Error:    snapshot.Error(field.Name),
	}
	if view.Label == "" {
		view.Label = field.Name
	}

	switch field.Type {
	case schema.FieldTypeDropdown:
		view.Placeholder = "Select " + view.Label
		for _, option := range field.Options {
			view.Options = append(view.Options, optionView{Value: option, Selected: option == view.Value})
		}
	case schema.FieldTypeNumber, schema.FieldTypePassword, schema.FieldTypeDate:
		view.InputType = string(field.Type)
	default:
		view.InputType = "text"
	}
	return view
}
