// Package session implements the form session engine: the active form type,
// its in-progress values, required-field validation, fill progress, and the
// ledger of accepted submissions.
//
// The engine is synchronous and single-caller. Every operation runs to
// completion against in-memory state and returns a Snapshot, a deep copy that
// UI layers render without touching engine state. Callers that share an engine
// between goroutines must serialise access themselves (see pkg/httpapi for a
// per-session mutex).
//
//	reg, _ := schema.DefaultRegistry()
//	eng, _ := session.New(reg)
//	eng.SelectFormType("userInfo")
//	eng.SetFieldValue("firstName", "Ann")
//	eng.SetFieldValue("lastName", "Lee")
//	res, _ := eng.Submit() // res.Outcome == session.OutcomeSubmitted
package session
