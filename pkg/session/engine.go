package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formsession/pkg/ledger"
	"github.com/goliatone/go-formsession/pkg/schema"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	formType string
	now      func() time.Time
	newID    func() string
}

// WithFormType selects an initial form type so the engine starts in the
// editing state instead of idle.
func WithFormType(formType string) Option {
	return func(cfg *config) {
		cfg.formType = strings.TrimSpace(formType)
	}
}

// WithClock overrides the clock used to stamp ledger entries.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithIDGenerator overrides how ledger entry IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// Engine owns one form session and its submission ledger.
type Engine struct {
	registry *schema.Registry
	ledger   *ledger.Ledger
	now      func() time.Time

	active   *schema.FormSchema
	values   map[string]string
	errors   map[string]string
	progress int
}

// New constructs an engine over registry. The registry is only read.
func New(registry *schema.Registry, options ...Option) (*Engine, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	cfg := config{now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var ledgerOpts []ledger.Option
	if cfg.newID != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithIDGenerator(cfg.newID))
	}

	e := &Engine{
		registry: registry,
		ledger:   ledger.New(ledgerOpts...),
		now:      cfg.now,
		values:   make(map[string]string),
		errors:   make(map[string]string),
	}

	if cfg.formType != "" {
		if _, err := e.SelectFormType(cfg.formType); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Registry returns the registry the engine reads schemas from.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// ActiveSchema returns the schema of the selected form type.
func (e *Engine) ActiveSchema() (schema.FormSchema, bool) {
	if e.active == nil {
		return schema.FormSchema{}, false
	}
	return e.active.Clone(), true
}

// SelectFormType activates formType and discards all in-progress values,
// errors and progress, including when formType is already active.
func (e *Engine) SelectFormType(formType string) (Snapshot, error) {
	found, err := e.registry.Schema(formType)
	if err != nil {
		return Snapshot{}, err
	}
	e.active = &found
	e.reset()
	return e.Snapshot(), nil
}

// SetFieldValue stores value under name and recomputes progress. An empty
// value clears the field but keeps its key in the value map.
func (e *Engine) SetFieldValue(name, value string) (Snapshot, error) {
	if e.active == nil {
		return Snapshot{}, ErrNoActiveForm
	}
	if !e.active.HasField(name) {
		return Snapshot{}, fmt.Errorf("%w: %q in form %q", ErrUnknownField, name, e.active.Type)
	}
	e.values[name] = value
	e.progress = computeProgress(e.values, len(e.active.Fields))
	return e.Snapshot(), nil
}

// Submit validates required fields. Missing values produce an
// OutcomeValidationFailed result with one "<Label> is required" message per
// field and leave values and ledger untouched. Otherwise a copy of the values
// is appended to the ledger and the session resets to a fresh form of the same
// type.
func (e *Engine) Submit() (SubmitResult, error) {
	if e.active == nil {
		return SubmitResult{}, ErrNoActiveForm
	}

	errs := validateRequired(*e.active, e.values)
	if len(errs) > 0 {
		e.errors = errs
		return SubmitResult{
			Outcome:  OutcomeValidationFailed,
			Snapshot: e.Snapshot(),
		}, nil
	}

	stored := e.ledger.Append(ledger.Entry{
		FormType:    e.active.Type,
		Values:      e.values,
		SubmittedAt: e.now(),
	})
	e.reset()
	return SubmitResult{
		Outcome:  OutcomeSubmitted,
		Entry:    &stored,
		Snapshot: e.Snapshot(),
	}, nil
}

// RecallAt moves the entry at pos out of the ledger and loads its values into
// the session for editing. When the entry belongs to another form type the
// session switches to that type first.
func (e *Engine) RecallAt(pos int) (RecallResult, error) {
	entry, err := e.ledger.At(pos)
	if err != nil {
		return RecallResult{}, err
	}

	target := e.active
	if target == nil || (entry.FormType != "" && entry.FormType != target.Type) {
		found, err := e.registry.Schema(entry.FormType)
		if err != nil {
			return RecallResult{}, err
		}
		target = &found
	}

	if _, err := e.ledger.RecallAt(pos); err != nil {
		return RecallResult{}, err
	}

	e.active = target
	e.values = ledger.CloneValues(entry.Values)
	e.errors = make(map[string]string)
	e.progress = computeProgress(e.values, len(e.active.Fields))

	return RecallResult{
		Entry:    entry,
		Snapshot: e.Snapshot(),
	}, nil
}

// RemoveAt deletes the entry at pos. The session itself is not touched.
func (e *Engine) RemoveAt(pos int) (Snapshot, error) {
	if _, err := e.ledger.RemoveAt(pos); err != nil {
		return Snapshot{}, err
	}
	return e.Snapshot(), nil
}

// Snapshot returns the current state. It never mutates the engine, so two
// calls without an intervening operation are equal.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Fields:   []schema.FieldDescriptor{},
		Values:   ledger.CloneValues(e.values),
		Errors:   cloneErrors(e.errors),
		Progress: e.progress,
		Entries:  e.ledger.Entries(),
	}
	if e.active != nil {
		clone := e.active.Clone()
		snap.ActiveFormType = clone.Type
		snap.Title = clone.Title
		snap.Fields = clone.Fields
	}
	return snap
}

func (e *Engine) reset() {
	e.values = make(map[string]string)
	e.errors = make(map[string]string)
	e.progress = 0
}

// computeProgress counts entries present in values with a non-empty string,
// against every field of the schema. Fields never touched and fields touched
// then cleared both count as unfilled; validity plays no part.
func computeProgress(values map[string]string, total int) int {
	if total <= 0 {
		return 0
	}
	filled := 0
	for _, value := range values {
		if value != "" {
			filled++
		}
	}
	return (100 * filled) / total
}

func validateRequired(form schema.FormSchema, values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, field := range form.Fields {
		if !field.Required {
			continue
		}
		if values[field.Name] != "" {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Name
		}
		errs[field.Name] = label + " is required"
	}
	return errs
}
