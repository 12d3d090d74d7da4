package wizard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// DraftStore saves and restores drafts. persistence.Drafts satisfies it.
// Load must not fail: missing or corrupt drafts report false.
type DraftStore interface {
	Save(ctx context.Context, key string, record model.Record) error
	Load(ctx context.Context, key string) (model.Record, bool)
	Clear(ctx context.Context, key string) error
}

// Submission is the finalized, validated record handed to a Submitter.
type Submission struct {
	WizardID    string
	Record      model.Record
	SubmittedAt time.Time
}

// Submitter accepts finalized records.
type Submitter interface {
	Submit(ctx context.Context, submission Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, submission Submission) error

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDraftStore enables autosave and draft restoration.
func WithDraftStore(store DraftStore) Option {
	return func(e *Engine) {
		e.drafts = store
	}
}

// WithSubmitter sets the sink for finalized records. Without one, Submit only
// validates and resets.
func WithSubmitter(submitter Submitter) Option {
	return func(e *Engine) {
		e.submitter = submitter
	}
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSanitizer filters every text value (including list entry sub-fields)
// before it is stored.
func WithSanitizer(fn func(string) string) Option {
	return func(e *Engine) {
		e.sanitize = fn
	}
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides the id source for new list entries.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}
