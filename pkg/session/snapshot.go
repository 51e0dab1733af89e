package session

import (
	"github.com/goliatone/go-formsession/pkg/ledger"
	"github.com/goliatone/go-formsession/pkg/schema"
)

// SubmittedMessage is the notice UI layers show after a successful submit.
const SubmittedMessage = "Form submitted successfully!"

// Snapshot is a read-only projection of engine state handed to UI layers. It
// shares no memory with the engine.
type Snapshot struct {
	ActiveFormType string                   `json:"activeFormType"`
	Title          string                   `json:"title,omitempty"`
	Fields         []schema.FieldDescriptor `json:"fields"`
	Values         map[string]string        `json:"values"`
	Errors         map[string]string        `json:"errors"`
	Progress       int                      `json:"progress"`
	Entries        []ledger.Entry           `json:"entries"`
}

// Idle reports whether no form type has been selected yet.
func (s Snapshot) Idle() bool {
	return s.ActiveFormType == ""
}

// Valid reports whether the snapshot carries no validation errors.
func (s Snapshot) Valid() bool {
	return len(s.Errors) == 0
}

// Value returns the current value of a field; unset fields read as "".
func (s Snapshot) Value(name string) string {
	return s.Values[name]
}

// Error returns the validation message attached to a field, if any.
func (s Snapshot) Error(name string) string {
	return s.Errors[name]
}

// Outcome classifies a submit attempt.
type Outcome string

const (
	// OutcomeSubmitted means the values were appended to the ledger.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeValidationFailed means required fields were missing; the ledger
	// is untouched and Snapshot.Errors lists the missing fields.
	OutcomeValidationFailed Outcome = "validation_failed"
)

// SubmitResult reports the outcome of Submit.
type SubmitResult struct {
	Outcome  Outcome       `json:"outcome"`
	Entry    *ledger.Entry `json:"entry,omitempty"`
	Snapshot Snapshot      `json:"session"`
}

// Succeeded reports whether the submission was accepted.
func (r SubmitResult) Succeeded() bool {
	return r.Outcome == OutcomeSubmitted
}

// RecallResult carries the entry moved out of the ledger and the session state
// after its values were loaded for editing.
type RecallResult struct {
	Entry    ledger.Entry `json:"entry"`
	Snapshot Snapshot     `json:"session"`
}

func cloneErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
