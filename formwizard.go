// Package formwizard is the top-level entry point: it re-exports the
// orchestrator constructor and runs a wizard in the terminal in one call.
package formwizard

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Submission aliases wizard.Submission for callers of Run.
type Submission = wizard.Submission

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Run builds the engine for wizard id and drives it with the terminal runner
// until the user submits or quits.
func Run(ctx context.Context, orch *orchestrator.Orchestrator, id string, options ...tui.Option) (Submission, error) {
	if orch == nil {
		orch = orchestrator.New()
	}
	engine, err := orch.Engine(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	runner, err := tui.NewRunner(options...)
	if err != nil {
		return Submission{}, err
	}
	return runner.Run(ctx, engine)
}

// EmbeddedDefinitions exposes the built-in wizard definition files.
func EmbeddedDefinitions() fs.FS {
	return definition.EmbeddedFS()
}

// EmbeddedTemplates exposes the built-in summary templates.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
