// Package tui drives a form session from the terminal: a main menu to pick a
// form, fill and submit it, and edit or delete submitted entries.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/text"
	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

// Menu actions in display order.
const (
	ActionSelectForm  = "Select form"
	ActionFillFields  = "Fill fields"
	ActionSubmit      = "Submit"
	ActionEditEntry   = "Edit entry"
	ActionDeleteEntry = "Delete entry"
	ActionShowEntries = "Show entries"
	ActionQuit        = "Quit"
)

var menuActions = []string{
	ActionSelectForm,
	ActionFillFields,
	ActionSubmit,
	ActionEditEntry,
	ActionDeleteEntry,
	ActionShowEntries,
	ActionQuit,
}

const dateLayout = "2006-01-02"

// Runner owns the interactive loop over one engine.
type Runner struct {
	engine *session.Engine
	driver PromptDriver
	theme  Theme
	view   *text.Renderer
}

// New constructs a runner with defaults (survey driver on stdout).
func New(engine *session.Engine, options ...Option) (*Runner, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	r := &Runner{
		engine: engine,
		driver: NewSurveyDriver(nil),
		view:   text.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Run shows the main menu until the user quits. Engine errors are printed and
// the loop continues; driver failures, including ErrAborted, end the loop.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.info(ctx, r.status()); err != nil {
			return err
		}

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "What would you like to do?",
			Options:      menuActions,
			DefaultIndex: -1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(menuActions) {
			if err := r.fail(ctx, "Invalid menu selection."); err != nil {
				return err
			}
			continue
		}

		action := menuActions[idx]
		if action == ActionQuit {
			return nil
		}
		if err := r.dispatch(ctx, action); err != nil {
			if !isEngineError(err) {
				return err
			}
			if failErr := r.fail(ctx, err.Error()); failErr != nil {
				return failErr
			}
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, action string) error {
	switch action {
	case ActionSelectForm:
		return r.selectForm(ctx)
	case ActionFillFields:
		return r.fillFields(ctx)
	case ActionSubmit:
		return r.submit(ctx)
	case ActionEditEntry:
		return r.editEntry(ctx)
	case ActionDeleteEntry:
		return r.deleteEntry(ctx)
	case ActionShowEntries:
		return r.showEntries(ctx)
	}
	return fmt.Errorf("tui: unknown action %q", action)
}

func (r *Runner) status() string {
	snap := r.engine.Snapshot()
	if snap.Idle() {
		return fmt.Sprintf("No form selected. %d submitted entries.", len(snap.Entries))
	}
	return fmt.Sprintf("%s %s %d%% complete. %d submitted entries.",
		snap.Title, text.ProgressBar(snap.Progress, 10), snap.Progress, len(snap.Entries))
}

func (r *Runner) selectForm(ctx context.Context) error {
	schemas := r.engine.Registry().Schemas()
	if len(schemas) == 0 {
		return r.info(ctx, "No forms are registered.")
	}

	options := make([]string, 0, len(schemas))
	current := r.engine.Snapshot().ActiveFormType
	defaultIdx := -1
	for idx, form := range schemas {
		options = append(options, form.Title)
		if form.Type == current {
			defaultIdx = idx
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Form type",
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(schemas) {
		return r.fail(ctx, "Invalid form selection.")
	}
	_, err = r.engine.SelectFormType(schemas[idx].Type)
	return err
}

func (r *Runner) fillFields(ctx context.Context) error {
	form, ok := r.engine.ActiveSchema()
	if !ok {
		return session.ErrNoActiveForm
	}
	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, r.engine.Snapshot().Value(field.Name))
		if err != nil {
			return err
		}
		if _, err := r.engine.SetFieldValue(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, field schema.FieldDescriptor, current string) (string, error) {
	label := displayLabel(field)
	cfg := InputConfig{Message: label, Default: current}

	switch field.Type {
	case schema.FieldTypePassword:
		return r.promptPassword(ctx, field, cfg, current)
	case schema.FieldTypeDropdown:
		return r.promptDropdown(ctx, field, current)
	case schema.FieldTypeNumber:
		return r.promptChecked(ctx, field, cfg, validateNumber)
	case schema.FieldTypeDate:
		cfg.Help = "Format: YYYY-MM-DD"
		return r.promptChecked(ctx, field, cfg, validateDate)
	default:
		return r.driver.Input(ctx, cfg)
	}
}

// promptPassword asks whether to keep a stored secret before prompting, since
// the hidden prompt cannot show it. An empty new answer clears the field.
func (r *Runner) promptPassword(ctx context.Context, field schema.FieldDescriptor, cfg InputConfig, current string) (string, error) {
	if current != "" {
		keep, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Keep current %s?", displayLabel(field)),
			Default: true,
			Help:    "Answer no to enter a new value or leave it empty to clear it.",
		})
		if err != nil {
			return "", err
		}
		if keep {
			return current, nil
		}
	}
	cfg.Default = ""
	return r.driver.Password(ctx, cfg)
}

// promptChecked re-prompts until check accepts the answer. Empty answers are
// always accepted; missing required values are reported on submit.
func (r *Runner) promptChecked(ctx context.Context, field schema.FieldDescriptor, cfg InputConfig, check func(string) error) (string, error) {
	cfg.Validator = func(value string) error {
		if value == "" {
			return nil
		}
		return check(value)
	}
	for {
		response, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return "", err
		}
		if err := cfg.Validator(response); err != nil {
			if err := r.fail(ctx, fmt.Sprintf("Invalid %s: %v", displayLabel(field), err)); err != nil {
				return "", err
			}
			continue
		}
		return response, nil
	}
}

func (r *Runner) promptDropdown(ctx context.Context, field schema.FieldDescriptor, current string) (string, error) {
	options := append([]string{"Select " + displayLabel(field)}, field.Options...)
	defaultIdx := 0
	if current != "" {
		if idx := indexOf(field.Options, current); idx >= 0 {
			defaultIdx = idx + 1
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return "", err
		}
		switch {
		case idx == 0:
			return "", nil
		case idx > 0 && idx < len(options):
			return options[idx], nil
		}
		if err := r.fail(ctx, fmt.Sprintf("Invalid %s selection.", displayLabel(field))); err != nil {
			return "", err
		}
	}
}

func (r *Runner) submit(ctx context.Context) error {
	res, err := r.engine.Submit()
	if err != nil {
		return err
	}
	if res.Succeeded() {
		return r.info(ctx, session.SubmittedMessage)
	}
	for _, fieldErr := range render.OrderedErrors(res.Snapshot) {
		if err := r.fail(ctx, fieldErr.Message); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) editEntry(ctx context.Context) error {
	pos, ok, err := r.pickEntry(ctx, "Entry to edit")
	if err != nil || !ok {
		return err
	}
	res, err := r.engine.RecallAt(pos)
	if err != nil {
		return err
	}
	if err := r.info(ctx, fmt.Sprintf("Editing entry %d (%s).", pos, res.Snapshot.Title)); err != nil {
		return err
	}
	return r.fillFields(ctx)
}

func (r *Runner) deleteEntry(ctx context.Context) error {
	pos, ok, err := r.pickEntry(ctx, "Entry to delete")
	if err != nil || !ok {
		return err
	}
	confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Delete entry %d?", pos),
	})
	if err != nil || !confirmed {
		return err
	}
	if _, err := r.engine.RemoveAt(pos); err != nil {
		return err
	}
	return r.info(ctx, fmt.Sprintf("Deleted entry %d.", pos))
}

func (r *Runner) showEntries(ctx context.Context) error {
	out, err := r.view.Render(ctx, r.engine.Snapshot(), render.RenderOptions{})
	if err != nil {
		return err
	}
	return r.info(ctx, strings.TrimRight(string(out), "\n"))
}

// pickEntry asks for a ledger position. ok is false when the ledger is empty.
func (r *Runner) pickEntry(ctx context.Context, message string) (int, bool, error) {
	table := render.LedgerTable(r.engine.Snapshot())
	if table.Empty() {
		return 0, false, r.info(ctx, "No submitted entries.")
	}

	options := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		options = append(options, entryLabel(row))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: -1,
	})
	if err != nil {
		return 0, false, err
	}
	// out of range positions are left to the engine to reject
	return idx, true, nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func entryLabel(row render.Row) string {
	var parts []string
	for _, cell := range row.Cells {
		if cell != "" {
			parts = append(parts, cell)
		}
	}
	return fmt.Sprintf("#%d %s: %s", row.Position, row.FormType, strings.Join(parts, ", "))
}

func displayLabel(field schema.FieldDescriptor) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func validateNumber(value string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return errors.New("not a number")
	}
	return nil
}

func validateDate(value string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func isEngineError(err error) bool {
	return errors.Is(err, session.ErrNoActiveForm) ||
		errors.Is(err, session.ErrUnknownFormType) ||
		errors.Is(err, session.ErrUnknownField) ||
		errors.Is(err, session.ErrIndexOutOfRange)
}
