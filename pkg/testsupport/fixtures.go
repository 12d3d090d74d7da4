// Package testsupport holds fixture and golden-file helpers shared by package
// tests. Set UPDATE_GOLDENS=1 to rewrite goldens from the current output.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// MustLoadRecord reads a draft fixture in either the tagged or the flat
// legacy layout.
func MustLoadRecord(t *testing.T, path string) model.Record {
	t.Helper()

	record, err := model.DecodeRecord(MustReadFixture(t, path))
	if err != nil {
		t.Fatalf("decode record %s: %v", path, err)
	}
	return record
}

// MustLoadJSON decodes a JSON golden file into target.
func MustLoadJSON(t *testing.T, path string, target any) {
	t.Helper()

	if err := json.Unmarshal(MustReadFixture(t, path), target); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set and
// reports whether it did, in which case the test should stop.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFixture(t, path, append(payload, '\n'))
	return true
}

func writeFixture(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden %s: %v", path, err)
	}
}

// CompareGolden diffs a decoded golden against the current value.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadFixture returns the raw bytes of a testdata file.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// Context is the context used by fixtures that drive an engine.
func Context() context.Context {
	return context.Background()
}
