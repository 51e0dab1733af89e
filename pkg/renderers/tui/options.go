package tui

import "github.com/goliatone/go-formsession/pkg/renderers/text"

// Theme captures optional message prefixes the runner applies when printing.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithTextRenderer overrides the renderer used by the "Show entries" action.
func WithTextRenderer(view *text.Renderer) Option {
	return func(r *Runner) {
		if view != nil {
			r.view = view
		}
	}
}
