package render

// FormTypeOption is one entry of the form-type selector.
type FormTypeOption struct {
	Type  string
	Title string
}

// RenderOptions describe per-request data that renderers can use without
// touching the engine.
type RenderOptions struct {
	// FormTypes lists the selectable form types in display order. Renderers
	// that draw a selector fall back to the active form type alone when empty.
	FormTypes []FormTypeOption
	// Notice is a one-off message shown above the form, for example
	// session.SubmittedMessage after a successful submit.
	Notice string
	// Action is the base path HTML renderers post to. Empty means "/".
	Action string
	// Hidden adds hidden inputs (CSRF tokens, session hints) to every HTML form
	// the renderer emits.
	Hidden map[string]string
}
