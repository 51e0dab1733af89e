// Package text renders session snapshots as plain text for terminals, logs and
// golden-file tests.
package text

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

const defaultBarWidth = 20

type Option func(*config)

type config struct {
	barWidth      int
	maskPasswords bool
}

// WithBarWidth sets the number of cells in the progress bar.
func WithBarWidth(width int) Option {
	return func(cfg *config) {
		if width > 0 {
			cfg.barWidth = width
		}
	}
}

// WithPasswordMasking toggles replacing password values with asterisks. It is
// on by default.
func WithPasswordMasking(enabled bool) Option {
	return func(cfg *config) {
		cfg.maskPasswords = enabled
	}
}

type Renderer struct {
	cfg config
}

// New constructs the plain-text renderer.
func New(options ...Option) *Renderer {
	cfg := config{barWidth: defaultBarWidth, maskPasswords: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{cfg: cfg}
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, snapshot session.Snapshot, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if notice := strings.TrimSpace(options.Notice); notice != "" {
		fmt.Fprintf(&buf, "%s\n\n", notice)
	}

	if snapshot.Idle() {
		buf.WriteString("No form selected.\n")
		if len(options.FormTypes) > 0 {
			buf.WriteString("Available forms:\n")
			for _, option := range options.FormTypes {
				fmt.Fprintf(&buf, "  - %s (%s)\n", option.Title, option.Type)
			}
		}
	} else {
		if err := r.writeForm(&buf, snapshot); err != nil {
			return nil, err
		}
	}

	if err := r.writeEntries(&buf, snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeForm(buf *bytes.Buffer, snapshot session.Snapshot) error {
	title := snapshot.Title
	if title == "" {
		title = snapshot.ActiveFormType
	}
	fmt.Fprintf(buf, "%s (%s)\n", title, snapshot.ActiveFormType)
	fmt.Fprintf(buf, "Progress: %s %d%%\n\n", ProgressBar(snapshot.Progress, r.cfg.barWidth), snapshot.Progress)

	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	for _, field := range snapshot.Fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", label, r.displayValue(field, snapshot.Value(field.Name)), hint(field))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("text renderer: write fields: %w", err)
	}

	if errs := render.OrderedErrors(snapshot); len(errs) > 0 {
		buf.WriteString("\nErrors:\n")
		for _, fieldErr := range errs {
			fmt.Fprintf(buf, "  ! %s\n", fieldErr.Message)
		}
	}
	return nil
}

func (r *Renderer) writeEntries(buf *bytes.Buffer, snapshot session.Snapshot) error {
	table := render.LedgerTable(snapshot)
	if table.Empty() {
		buf.WriteString("\nNo submitted entries.\n")
		return nil
	}

	fmt.Fprintf(buf, "\nSubmitted entries (%d):\n", len(table.Rows))
	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	header := []string{"#", "Form"}
	columns := make([]schema.FieldDescriptor, len(table.Columns))
	for idx, column := range table.Columns {
		header = append(header, column.Label)
		if field, ok := fieldNamed(snapshot.Fields, column.Name); ok {
			columns[idx] = field
		}
	}
	fmt.Fprintf(tw, "  %s\n", strings.Join(header, "\t"))
	for _, row := range table.Rows {
		cells := []string{fmt.Sprint(row.Position), row.FormType}
		for idx, cell := range row.Cells {
			cells = append(cells, r.displayValue(columns[idx], cell))
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("text renderer: write entries: %w", err)
	}
	return nil
}

func (r *Renderer) displayValue(field schema.FieldDescriptor, value string) string {
	if value == "" {
		return "-"
	}
	if r.cfg.maskPasswords && field.Type == schema.FieldTypePassword {
		return strings.Repeat("*", len(value))
	}
	return value
}

func fieldNamed(fields []schema.FieldDescriptor, name string) (schema.FieldDescriptor, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return schema.FieldDescriptor{}, false
}

func hint(field schema.FieldDescriptor) string {
	if field.Type == schema.FieldTypeDropdown {
		return "[" + strings.Join(field.Options, " | ") + "]"
	}
	return "(" + string(field.Type) + ")"
}

// ProgressBar draws a fixed-width bar for a 0..100 percentage.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
