package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// State is a point-in-time copy of the engine state. Mutating it has no
// effect on the engine.
type State struct {
	CurrentStep     int
	StepCount       int
	Progress        float64
	Draft           model.Record
	Errors          validation.Errors
	IsSubmitting    bool
	LastSubmitError error
}

// Engine drives one wizard session. All methods are safe for concurrent use;
// operations complete atomically under the engine lock except for the
// submitter call, which runs unlocked.
type Engine struct {
	mu         sync.Mutex
	def        Definition
	seq        *stepper.Sequencer
	draft      model.Record
	errors     validation.Errors
	submitting bool
	lastErr    error

	drafts    DraftStore
	submitter Submitter
	logger    *zap.Logger
	sanitize  func(string) string
	now       func() time.Time
	newID     func() string
}

// New validates def, restores a saved draft when a DraftStore is configured
// and positions the session on the first step.
func New(ctx context.Context, def Definition, options ...Option) (*Engine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	seq, err := stepper.New(len(def.Steps), def.Progress)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		def:    def,
		seq:    seq,
		errors: validation.Errors{},
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	e.draft = def.Defaults(e.newID)
	if e.drafts != nil {
		if saved, ok := e.drafts.Load(ctx, def.Key()); ok {
			e.draft = def.Normalise(saved, e.newID)
			e.logger.Debug("draft restored", zap.String("wizard", def.ID), zap.String("key", def.Key()))
		}
	}
	return e, nil
}

// Definition returns the definition the engine was built from.
func (e *Engine) Definition() Definition {
	return e.def
}

// CurrentStep returns the step currently shown.
func (e *Engine) CurrentStep() (int, Step) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.seq.Index()
	return idx, e.def.Steps[idx]
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		CurrentStep:     e.seq.Index(),
		StepCount:       e.seq.Count(),
		Progress:        e.seq.Progress(),
		Draft:           e.draft.Clone(),
		Errors:          e.errors.Clone(),
		IsSubmitting:    e.submitting,
		LastSubmitError: e.lastErr,
	}
}

// UpdateField replaces the value of a declared field. An unset value clears
// the field. Only the updated field is revalidated.
func (e *Engine) UpdateField(ctx context.Context, name string, value model.Value) error {
	field, ok := e.def.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if !value.IsSet() {
		value = model.Empty(field.Kind)
	}
	if value.Kind != field.Kind {
		return fmt.Errorf("%w: %s is %s, got %s", ErrKindMismatch, name, field.Kind, value.Kind)
	}
	if !value.Finite() {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidValue, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft[name] = normaliseValue(field, e.clean(value), e.newID)
	e.touch(ctx, name)
	return nil
}

// AppendEntry adds an entry to a list field and returns it.
func (e *Engine) AppendEntry(ctx context.Context, name string, values map[string]string) (model.Entry, error) {
	field, err := e.listField(name)
	if err != nil {
		return model.Entry{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	list := newList(field, e.draft[name].Entries, e.newID)
	cleaned := make(map[string]string, len(values))
	for key, value := range values {
		cleaned[key] = e.cleanText(value)
	}
	entry := list.Append(cleaned)
	e.draft[name] = list.Value()
	e.touch(ctx, name)
	return entry, nil
}

// RemoveEntry deletes the entry at index. It reports false, without error,
// when the index is out of range or the list is already at its minimum.
func (e *Engine) RemoveEntry(ctx context.Context, name string, index int) (bool, error) {
	field, err := e.listField(name)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	list := newList(field, e.draft[name].Entries, e.newID)
	if !list.RemoveAt(index) {
		return false, nil
	}
	e.draft[name] = list.Value()
	e.touch(ctx, name)
	return true, nil
}

// RemoveEntryByID deletes the entry with the given id, subject to the same
// rules as RemoveEntry.
func (e *Engine) RemoveEntryByID(ctx context.Context, name, id string) (bool, error) {
	field, err := e.listField(name)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	list := newList(field, e.draft[name].Entries, e.newID)
	if !list.Remove(id) {
		return false, nil
	}
	e.draft[name] = list.Value()
	e.touch(ctx, name)
	return true, nil
}

// UpdateEntry sets one sub-field of the entry identified by id.
func (e *Engine) UpdateEntry(ctx context.Context, name, id, sub, value string) error {
	field, err := e.listField(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	list := newList(field, e.draft[name].Entries, e.newID)
	if err := list.Update(id, sub, e.cleanText(value)); err != nil {
		return fmt.Errorf("wizard: update %s: %w", name, err)
	}
	e.draft[name] = list.Value()
	e.touch(ctx, name)
	return nil
}

// Next validates the fields of the current step and advances when they pass.
// On failure the step is unchanged and a *ValidationError is returned.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.seq.Index()
	if err := e.checkStep(idx); err != nil {
		return err
	}
	e.seq.Advance()
	return nil
}

// Previous moves back one step. It never validates.
func (e *Engine) Previous() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq.Retreat()
}

// GoTo jumps to a step. Moving backward is always allowed; moving forward
// requires every step in between, starting with the current one, to pass.
func (e *Engine) GoTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := e.seq.Clamp(index)
	for step := e.seq.Index(); step < target; step++ {
		if err := e.checkStep(step); err != nil {
			e.seq.GoTo(step)
			return err
		}
	}
	e.seq.GoTo(target)
	return nil
}

// Submit validates the whole record and hands it to the submitter. On
// success the saved draft is cleared and the session starts over; on any
// failure the draft and current step are kept.
func (e *Engine) Submit(ctx context.Context) (Submission, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return Submission{}, ErrSubmitInProgress
	}
	errs := e.def.Schema.Validate(e.draft)
	e.errors = errs
	if !errs.Empty() {
		e.lastErr = nil
		e.mu.Unlock()
		return Submission{}, &ValidationError{Step: -1, Errors: errs.Clone()}
	}
	submission := Submission{
		WizardID:    e.def.ID,
		Record:      e.draft.Clone(),
		SubmittedAt: e.now(),
	}
	e.submitting = true
	e.lastErr = nil
	submitter := e.submitter
	e.mu.Unlock()

	var sinkErr error
	if submitter != nil {
		sinkErr = submitter.Submit(ctx, submission)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitting = false
	if sinkErr != nil {
		e.lastErr = &SubmissionError{WizardID: e.def.ID, Err: sinkErr}
		e.logger.Info("submission failed", zap.String("wizard", e.def.ID), zap.Error(sinkErr))
		return Submission{}, e.lastErr
	}
	e.restart(ctx)
	return submission, nil
}

// Reset discards the draft, including the saved copy, and returns to the
// first step.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitting {
		return ErrSubmitInProgress
	}
	e.restart(ctx)
	return nil
}

func (e *Engine) restart(ctx context.Context) {
	e.draft = e.def.Defaults(e.newID)
	e.errors = validation.Errors{}
	e.lastErr = nil
	e.seq.Reset()
	if e.drafts == nil {
		return
	}
	if err := e.drafts.Clear(ctx, e.def.Key()); err != nil {
		e.logger.Warn("draft clear failed", zap.String("key", e.def.Key()), zap.Error(err))
	}
}

func (e *Engine) checkStep(idx int) error {
	fields := e.def.Steps[idx].Fields
	errs := e.def.Schema.ValidateFields(e.draft, fields...)
	e.errors = e.errors.Without(fields...).Merge(errs)
	if errs.Empty() {
		return nil
	}
	return &ValidationError{Step: idx, Errors: errs}
}

// touch persists the draft and revalidates one field. Caller holds e.mu.
func (e *Engine) touch(ctx context.Context, name string) {
	e.errors = e.errors.Without(name).Merge(e.def.Schema.ValidateField(e.draft, name))
	if e.drafts == nil {
		return
	}
	if err := e.drafts.Save(ctx, e.def.Key(), e.draft); err != nil {
		e.logger.Warn("autosave failed", zap.String("key", e.def.Key()), zap.Error(err))
	}
}

func (e *Engine) listField(name string) (Field, error) {
	field, ok := e.def.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if field.Kind != model.KindList {
		return Field{}, fmt.Errorf("%w: %s", ErrNotAList, name)
	}
	return field, nil
}

func (e *Engine) clean(value model.Value) model.Value {
	if e.sanitize == nil {
		return value
	}
	switch value.Kind {
	case model.KindText:
		value.Text = e.sanitize(value.Text)
	case model.KindList:
		value = value.Clone()
		for i := range value.Entries {
			for key, text := range value.Entries[i].Fields {
				value.Entries[i].Fields[key] = e.sanitize(text)
			}
		}
	}
	return value
}

func (e *Engine) cleanText(text string) string {
	if e.sanitize == nil {
		return text
	}
	return e.sanitize(text)
}
