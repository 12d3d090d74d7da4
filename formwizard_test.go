package formwizard

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/persistence"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

// quitDriver keeps every default and picks the last option, which is always
// "Save and quit" on the step menu.
type quitDriver struct {
	inputs int
}

func (d *quitDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.inputs++
	if d.inputs == 1 {
		return "Rocket", nil
	}
	return cfg.Default, nil
}

func (d *quitDriver) Password(_ context.Context, cfg tui.InputConfig) (string, error) {
	return cfg.Default, nil
}

func (d *quitDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) { return false, nil }

func (d *quitDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return len(cfg.Options) - 1, nil
}

func (d *quitDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	return cfg.Default, nil
}

func (d *quitDriver) Info(context.Context, string) error { return nil }

func TestRun_QuitKeepsDraft(t *testing.T) {
	ctx := context.Background()
	orch := NewOrchestrator(orchestrator.WithStore(persistence.NewMemoryStore()))
	driver := &quitDriver{}

	_, err := Run(ctx, orch, definition.TeamRegistration, tui.WithPromptDriver(driver))
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if driver.inputs != 2 {
		t.Fatalf("expected the two first-step fields to be prompted, got %d", driver.inputs)
	}
	if !orch.HasDraft(ctx, definition.TeamRegistration) {
		t.Fatalf("expected draft to be saved")
	}
}

func TestRun_UnknownWizard(t *testing.T) {
	_, err := Run(context.Background(), nil, "nope", tui.WithPromptDriver(&quitDriver{}))
	if !errors.Is(err, definition.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmbeddedFiles(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedDefinitions(), "team-registration.yaml"); err != nil {
		t.Fatalf("expected team definition: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), render.DefaultSummaryTemplate); err != nil {
		t.Fatalf("expected summary template: %v", err)
	}
}
