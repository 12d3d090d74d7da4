// Package tui drives a wizard engine from an interactive terminal. Each step
// prompts for its fields, prints the field errors the engine reports, and
// lets the user move between steps and submit.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/widgets"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type action int

const (
	actionNext action = iota
	actionPrevious
	actionSubmit
	actionQuit
)

var actionLabels = map[action]string{
	actionNext:     "Next",
	actionPrevious: "Previous",
	actionSubmit:   "Submit",
	actionQuit:     "Save and quit",
}

const (
	listAdd    = "Add entry"
	listRemove = "Remove entry"
	listDone   = "Done"
)

// Runner walks a user through a wizard engine.
type Runner struct {
	driver  PromptDriver
	summary *render.Summary
	widgets *widgets.Registry
	theme   Theme
	logger  *zap.Logger
}

// NewRunner builds a runner backed by survey unless another driver is given.
func NewRunner(options ...Option) (*Runner, error) {
	r := &Runner{theme: DefaultTheme, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	if r.summary == nil {
		summary, err := render.NewSummary()
		if err != nil {
			return nil, err
		}
		r.summary = summary
	}
	return r, nil
}

// Run prompts until the engine accepts a submission or the user quits. Quitting
// returns ErrAborted and leaves the draft in place.
func (r *Runner) Run(ctx context.Context, engine *wizard.Engine) (wizard.Submission, error) {
	if engine == nil {
		return wizard.Submission{}, ErrNoEngine
	}
	def := engine.Definition()
	if def.Title != "" {
		if err := r.driver.Info(ctx, def.Title); err != nil {
			return wizard.Submission{}, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return wizard.Submission{}, err
		}
		idx, step := engine.CurrentStep()
		state := engine.State()
		if err := r.header(ctx, state, step); err != nil {
			return wizard.Submission{}, err
		}

		if step.Summary {
			text, err := r.summary.Render(def, state.Draft)
			if err != nil {
				return wizard.Submission{}, fmt.Errorf("tui: render summary: %w", err)
			}
			if err := r.driver.Info(ctx, strings.TrimRight(text, "\n")); err != nil {
				return wizard.Submission{}, err
			}
		}
		for _, name := range step.Fields {
			field, ok := def.Field(name)
			if !ok {
				continue
			}
			if err := r.promptField(ctx, engine, field); err != nil {
				return wizard.Submission{}, err
			}
		}
		if err := r.showErrors(ctx, def, stepErrors(step, engine.State().Errors)); err != nil {
			return wizard.Submission{}, err
		}

		choice, err := r.chooseAction(ctx, idx, state.StepCount)
		if err != nil {
			return wizard.Submission{}, err
		}
		switch choice {
		case actionPrevious:
			engine.Previous()
		case actionNext:
			if err := r.next(ctx, engine); err != nil {
				return wizard.Submission{}, err
			}
		case actionSubmit:
			submission, done, err := r.submit(ctx, engine)
			if err != nil || done {
				return submission, err
			}
		case actionQuit:
			r.logger.Debug("wizard left without submitting", zap.String("wizard", def.ID))
			return wizard.Submission{}, ErrAborted
		}
	}
}

func (r *Runner) header(ctx context.Context, state wizard.State, step wizard.Step) error {
	title := step.Title
	if title == "" {
		title = "Details"
	}
	line := fmt.Sprintf("%s Step %d of %d: %s (%.0f%%)",
		r.theme.StepPrefix, state.CurrentStep+1, state.StepCount, title, state.Progress*100)
	if err := r.driver.Info(ctx, strings.TrimSpace(line)); err != nil {
		return err
	}
	if step.Description != "" {
		return r.info(ctx, step.Description)
	}
	return nil
}

func (r *Runner) chooseAction(ctx context.Context, idx, count int) (action, error) {
	var actions []action
	if idx > 0 {
		actions = append(actions, actionPrevious)
	}
	if idx < count-1 {
		actions = append(actions, actionNext)
	} else {
		actions = append(actions, actionSubmit)
	}
	actions = append(actions, actionQuit)

	labels := make([]string, len(actions))
	defaultIdx := 0
	for i, a := range actions {
		labels[i] = actionLabels[a]
		if a == actionNext || a == actionSubmit {
			defaultIdx = i
		}
	}
	picked, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: labels, DefaultIndex: defaultIdx})
	if err != nil {
		return 0, err
	}
	if picked < 0 || picked >= len(actions) {
		return actionQuit, nil
	}
	return actions[picked], nil
}

func (r *Runner) next(ctx context.Context, engine *wizard.Engine) error {
	err := engine.Next()
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return r.info(ctx, "Please fix the errors above before continuing.")
	}
	return err
}

func (r *Runner) submit(ctx context.Context, engine *wizard.Engine) (wizard.Submission, bool, error) {
	submission, err := engine.Submit(ctx)
	if err == nil {
		return submission, true, r.info(ctx, "Submitted.")
	}

	var verr *wizard.ValidationError
	var serr *wizard.SubmissionError
	switch {
	case errors.As(err, &verr):
		def := engine.Definition()
		if err := r.showErrors(ctx, def, verr.Errors); err != nil {
			return wizard.Submission{}, false, err
		}
		if first := firstStepWithError(def, verr.Errors); first >= 0 {
			if err := engine.GoTo(first); err != nil {
				return wizard.Submission{}, false, err
			}
		}
		return wizard.Submission{}, false, nil
	case errors.As(err, &serr):
		return wizard.Submission{}, false, r.fail(ctx, fmt.Sprintf("Submission failed: %v", serr.Err))
	case errors.Is(err, wizard.ErrSubmitInProgress):
		return wizard.Submission{}, false, r.info(ctx, "A submission is already in progress.")
	default:
		return wizard.Submission{}, false, err
	}
}

func (r *Runner) promptField(ctx context.Context, engine *wizard.Engine, field wizard.Field) error {
	if field.Kind == model.KindList {
		return r.promptList(ctx, engine, field)
	}
	widget, _ := r.widgets.Resolve(field)

	current := engine.State().Draft[field.Name]
	cfg := InputConfig{
		Message: field.DisplayLabel(),
		Default: current.String(),
		Help:    field.Help,
	}

	var (
		raw string
		err error
	)
	switch widget {
	case widgets.WidgetPassword:
		raw, err = r.driver.Password(ctx, cfg)
	case widgets.WidgetTextArea:
		raw, err = r.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
	default:
		cfg.Validator = inputValidator(field.Kind)
		raw, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}

	value, err := parseValue(field.Kind, raw)
	if err != nil {
		return r.fail(ctx, fmt.Sprintf("%s: %v", field.DisplayLabel(), err))
	}
	if value.Equal(current) {
		return nil
	}
	return engine.UpdateField(ctx, field.Name, value)
}

func (r *Runner) promptList(ctx context.Context, engine *wizard.Engine, field wizard.Field) error {
	label := field.DisplayLabel()
	for i, entry := range engine.State().Draft[field.Name].Entries {
		if err := r.promptEntry(ctx, engine, field, i, entry); err != nil {
			return err
		}
	}

	for {
		entries := engine.State().Draft[field.Name].Entries
		picked, err := r.driver.Select(ctx, SelectConfig{
			Message:      fmt.Sprintf("%s (%d)", label, len(entries)),
			Options:      []string{listAdd, listRemove, listDone},
			DefaultIndex: 2,
		})
		if err != nil {
			return err
		}

		switch picked {
		case 0:
			entry, err := engine.AppendEntry(ctx, field.Name, nil)
			if err != nil {
				return err
			}
			if err := r.promptEntry(ctx, engine, field, len(entries), entry); err != nil {
				return err
			}
		case 1:
			if err := r.removeEntry(ctx, engine, field, entries); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) promptEntry(ctx context.Context, engine *wizard.Engine, field wizard.Field, index int, entry model.Entry) error {
	for _, sub := range field.EntryFields {
		subLabel := sub.Label
		if subLabel == "" {
			subLabel = sub.Name
		}
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s %d: %s", field.DisplayLabel(), index+1, subLabel),
			Default: entry.Get(sub.Name),
		})
		if err != nil {
			return err
		}
		if raw == entry.Get(sub.Name) {
			continue
		}
		if err := engine.UpdateEntry(ctx, field.Name, entry.ID, sub.Name, raw); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) removeEntry(ctx context.Context, engine *wizard.Engine, field wizard.Field, entries []model.Entry) error {
	if len(entries) == 0 {
		return r.info(ctx, "There are no entries to remove.")
	}
	options := make([]string, 0, len(entries)+1)
	for i, entry := range entries {
		text := entry.String()
		if strings.TrimSpace(text) == "" {
			text = "(empty)"
		}
		options = append(options, fmt.Sprintf("%d. %s", i+1, text))
	}
	options = append(options, "Cancel")

	picked, err := r.driver.Select(ctx, SelectConfig{Message: "Remove which entry?", Options: options, DefaultIndex: len(entries)})
	if err != nil {
		return err
	}
	if picked < 0 || picked >= len(entries) {
		return nil
	}
	removed, err := engine.RemoveEntry(ctx, field.Name, picked)
	if err != nil {
		return err
	}
	if !removed {
		return r.info(ctx, fmt.Sprintf("%s needs at least %d entries.", field.DisplayLabel(), max(field.MinEntries, 1)))
	}
	return nil
}

func (r *Runner) showErrors(ctx context.Context, def wizard.Definition, errs validation.Errors) error {
	for _, fe := range render.OrderedErrors(def, errs) {
		if err := r.fail(ctx, fmt.Sprintf("%s: %s", fe.Label, fe.Message)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, strings.TrimSpace(r.theme.InfoPrefix+" "+msg))
}

func (r *Runner) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, strings.TrimSpace(r.theme.ErrorPrefix+" "+msg))
}

func inputValidator(kind model.Kind) func(string) error {
	switch kind {
	case model.KindNumber, model.KindDate:
		return func(raw string) error {
			_, err := parseValue(kind, raw)
			return err
		}
	default:
		return nil
	}
}

func parseValue(kind model.Kind, raw string) (model.Value, error) {
	switch kind {
	case model.KindNumber:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return model.Empty(model.KindNumber), nil
		}
		n, err := model.ParseNumber(raw)
		if err != nil {
			return model.Value{}, errors.New("enter a number")
		}
		return model.Number(n), nil
	case model.KindDate:
		t, err := model.ParseDate(strings.TrimSpace(raw))
		if err != nil {
			return model.Value{}, errors.New("enter a date as YYYY-MM-DD")
		}
		return model.Date(t), nil
	default:
		return model.Text(raw), nil
	}
}

// stepErrors keeps the errors owned by the fields of step.
func stepErrors(step wizard.Step, errs validation.Errors) validation.Errors {
	out := validation.Errors{}
	for _, name := range step.Fields {
		out = out.Merge(errs.For(name))
	}
	return out
}

func firstStepWithError(def wizard.Definition, errs validation.Errors) int {
	for i, step := range def.Steps {
		if len(stepErrors(step, errs)) > 0 {
			return i
		}
	}
	return -1
}
