package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/persistence"
)

func sampleRecord() model.Record {
	return model.Record{
		"teamName": model.Text("Rocket"),
		"deadline": model.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		"members": model.List(
			model.Entry{ID: "a", Fields: map[string]string{"name": "Ada", "role": "Lead"}},
		),
	}
}

func TestDrafts_RoundTrip(t *testing.T) {
	fileStore, err := persistence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	stores := map[string]persistence.Store{
		"memory": persistence.NewMemoryStore(),
		"file":   fileStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			drafts := persistence.NewDrafts(store)
			record := sampleRecord()

			if err := drafts.Save(ctx, "teamRegistrationData", record); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, ok := drafts.Load(ctx, "teamRegistrationData")
			if !ok {
				t.Fatalf("expected saved draft")
			}
			if !got.Equal(record) {
				t.Fatalf("round trip mismatch: %#v", got)
			}

			if err := drafts.Clear(ctx, "teamRegistrationData"); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if _, ok := drafts.Load(ctx, "teamRegistrationData"); ok {
				t.Fatalf("expected draft to be cleared")
			}
		})
	}
}

func TestDrafts_LoadMissing(t *testing.T) {
	drafts := persistence.NewDrafts(persistence.NewMemoryStore())
	if rec, ok := drafts.Load(context.Background(), "nothing"); ok || rec != nil {
		t.Fatalf("expected no draft, got %#v", rec)
	}
}

func TestDrafts_CorruptDataIsTreatedAsMissing(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	if err := store.Put(ctx, "k", []byte(`{"teamName":`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	core, logs := observer.New(zapcore.WarnLevel)
	drafts := persistence.NewDrafts(store, persistence.WithLogger(zap.New(core)))

	if _, ok := drafts.Load(ctx, "k"); ok {
		t.Fatalf("expected corrupt draft to be ignored")
	}
	if logs.FilterMessage("discarding corrupt draft").Len() != 1 {
		t.Fatalf("expected corrupt draft warning, got %v", logs.All())
	}
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (brokenStore) Put(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenStore) Delete(context.Context, string) error    { return errors.New("read only") }

func TestDrafts_StoreFailures(t *testing.T) {
	ctx := context.Background()
	drafts := persistence.NewDrafts(brokenStore{})

	if _, ok := drafts.Load(ctx, "k"); ok {
		t.Fatalf("expected load failure to report no draft")
	}
	if err := drafts.Save(ctx, "k", sampleRecord()); err == nil {
		t.Fatalf("expected save error to propagate to the caller")
	}
}

func TestDrafts_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	drafts := persistence.NewDrafts(store, persistence.WithKeyPrefix("user-1/"))

	if err := drafts.Save(ctx, "onboarding", sampleRecord()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Get(ctx, "user-1/onboarding"); err != nil {
		t.Fatalf("expected prefixed key, got %v", err)
	}
}

func TestFileStore_SanitisesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := persistence.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, "../escape/me", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".json" {
		t.Fatalf("expected a single json file inside the store dir, got %v", entries)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
