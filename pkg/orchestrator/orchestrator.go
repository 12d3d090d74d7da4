package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/persistence"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects the definition registry. The built-in wizards are used
// when omitted.
func WithRegistry(registry *definition.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithStore sets the store shared by every engine's drafts.
func WithStore(store persistence.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithLogger sets the logger handed to drafts and engines.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSubmitter registers the submitter used by engines of wizard id.
func WithSubmitter(id string, submitter wizard.Submitter) Option {
	return func(o *Orchestrator) {
		if submitter == nil {
			return
		}
		if o.submitters == nil {
			o.submitters = make(map[string]wizard.Submitter)
		}
		o.submitters[id] = submitter
	}
}

// WithEngineOptions appends options applied to every engine, after the
// orchestrator's own.
func WithEngineOptions(options ...wizard.Option) Option {
	return func(o *Orchestrator) {
		o.engineOptions = append(o.engineOptions, options...)
	}
}

// DraftKeyPrefix namespaces wizard drafts inside the shared store so they
// never collide with other entries such as the session token.
const DraftKeyPrefix = "draft."

// Orchestrator builds engines for registered wizards.
type Orchestrator struct {
	registry      *definition.Registry
	store         persistence.Store
	logger        *zap.Logger
	submitters    map[string]wizard.Submitter
	engineOptions []wizard.Option
	drafts        *persistence.Drafts
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// built-in wizards and an in-memory store.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = definition.Default()
	}
	if o.store == nil {
		o.store = persistence.NewMemoryStore()
	}
	o.drafts = persistence.NewDrafts(o.store,
		persistence.WithLogger(o.logger.Named("drafts")),
		persistence.WithKeyPrefix(DraftKeyPrefix),
	)
	return o
}

// Store returns the shared store.
func (o *Orchestrator) Store() persistence.Store {
	return o.store
}

// Wizards returns the registered wizard ids.
func (o *Orchestrator) Wizards() []string {
	return o.registry.IDs()
}

// Definition returns the definition registered under id.
func (o *Orchestrator) Definition(id string) (wizard.Definition, error) {
	return o.registry.Get(id)
}

// Engine returns an engine for wizard id, restoring any saved draft.
func (o *Orchestrator) Engine(ctx context.Context, id string) (*wizard.Engine, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	def, err := o.registry.Get(id)
	if err != nil {
		return nil, err
	}

	opts := []wizard.Option{
		wizard.WithDraftStore(o.drafts),
		wizard.WithLogger(o.logger.Named("wizard")),
	}
	if submitter, ok := o.submitters[id]; ok {
		opts = append(opts, wizard.WithSubmitter(submitter))
	}
	opts = append(opts, o.engineOptions...)

	engine, err := wizard.New(ctx, def, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build engine %q: %w", id, err)
	}
	return engine, nil
}

// HasDraft reports whether a saved draft exists for wizard id.
func (o *Orchestrator) HasDraft(ctx context.Context, id string) bool {
	def, err := o.registry.Get(id)
	if err != nil {
		return false
	}
	_, ok := o.drafts.Load(ctx, def.Key())
	return ok
}

// ClearDraft deletes the saved draft of wizard id.
func (o *Orchestrator) ClearDraft(ctx context.Context, id string) error {
	def, err := o.registry.Get(id)
	if err != nil {
		return err
	}
	return o.drafts.Clear(ctx, def.Key())
}

// ImportOpenAPI builds a definition from an OpenAPI component and registers
// it.
func (o *Orchestrator) ImportOpenAPI(ctx context.Context, data []byte, component string, options ...openapi.Option) (wizard.Definition, error) {
	def, err := openapi.Import(ctx, data, component, options...)
	if err != nil {
		return wizard.Definition{}, err
	}
	if err := o.registry.Add(def); err != nil {
		return wizard.Definition{}, fmt.Errorf("orchestrator: register %q: %w", def.ID, err)
	}
	return def, nil
}
