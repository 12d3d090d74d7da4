package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// DraftOption configures Drafts.
type DraftOption func(*Drafts)

// WithLogger attaches a logger used to report swallowed load failures.
func WithLogger(logger *zap.Logger) DraftOption {
	return func(d *Drafts) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithKeyPrefix namespaces every key, for stores shared between hosts.
func WithKeyPrefix(prefix string) DraftOption {
	return func(d *Drafts) {
		d.prefix = prefix
	}
}

// Drafts saves whole records under a per-wizard key.
type Drafts struct {
	store  Store
	logger *zap.Logger
	prefix string
}

// NewDrafts wraps store with the record codec.
func NewDrafts(store Store, options ...DraftOption) *Drafts {
	d := &Drafts{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *Drafts) key(key string) string {
	return d.prefix + key
}

// Save serialises record and writes it under key.
func (d *Drafts) Save(ctx context.Context, key string, record model.Record) error {
	if d == nil || d.store == nil {
		return errors.New("persistence: store is not configured")
	}
	data, err := model.EncodeRecord(record)
	if err != nil {
		return err
	}
	if err := d.store.Put(ctx, d.key(key), data); err != nil {
		return fmt.Errorf("persistence: save %s: %w", key, err)
	}
	return nil
}

// Load returns the saved record for key. Missing, unreadable and corrupt
// drafts all report false; the cause is logged, never returned.
func (d *Drafts) Load(ctx context.Context, key string) (model.Record, bool) {
	if d == nil || d.store == nil {
		return nil, false
	}
	data, err := d.store.Get(ctx, d.key(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.logger.Warn("draft load failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	record, err := model.DecodeRecord(data)
	if err != nil {
		d.logger.Warn("discarding corrupt draft", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return record, true
}

// Clear removes the saved draft for key.
func (d *Drafts) Clear(ctx context.Context, key string) error {
	if d == nil || d.store == nil {
		return errors.New("persistence: store is not configured")
	}
	if err := d.store.Delete(ctx, d.key(key)); err != nil {
		return fmt.Errorf("persistence: clear %s: %w", key, err)
	}
	return nil
}
