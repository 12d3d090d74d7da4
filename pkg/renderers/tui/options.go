package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/widgets"
)

// Theme captures the prefixes applied to printed messages.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	StepPrefix:  "==",
	InfoPrefix:  "",
	ErrorPrefix: "!",
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithSummary sets the renderer used for summary steps.
func WithSummary(summary *render.Summary) Option {
	return func(r *Runner) {
		if summary != nil {
			r.summary = summary
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWidgets overrides the registry that picks the prompt for each field.
func WithWidgets(registry *widgets.Registry) Option {
	return func(r *Runner) {
		if registry != nil {
			r.widgets = registry
		}
	}
}
