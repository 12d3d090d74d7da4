package definition_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type fieldSnapshot struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Label       string   `json:"label"`
	Multiline   bool     `json:"multiline,omitempty"`
	Secret      bool     `json:"secret,omitempty"`
	MinEntries  int      `json:"minEntries,omitempty"`
	EntryFields []string `json:"entryFields,omitempty"`
}

type stepSnapshot struct {
	Title   string   `json:"title"`
	Fields  []string `json:"fields,omitempty"`
	Summary bool     `json:"summary,omitempty"`
}

type definitionSnapshot struct {
	ID       string          `json:"id"`
	Key      string          `json:"key"`
	Progress string          `json:"progress"`
	Fields   []fieldSnapshot `json:"fields"`
	Steps    []stepSnapshot  `json:"steps"`
}

func snapshotOf(def wizard.Definition) definitionSnapshot {
	out := definitionSnapshot{
		ID:       def.ID,
		Key:      def.Key(),
		Progress: def.Progress.String(),
	}
	for _, f := range def.Fields {
		fs := fieldSnapshot{
			Name:       f.Name,
			Kind:       string(f.Kind),
			Label:      f.Label,
			Multiline:  f.Multiline,
			Secret:     f.Secret,
			MinEntries: f.MinEntries,
		}
		if len(f.EntryFields) > 0 {
			fs.EntryFields = f.EntryFieldNames()
		}
		out.Fields = append(out.Fields, fs)
	}
	for _, s := range def.Steps {
		ss := stepSnapshot{Title: s.Title, Summary: s.Summary}
		if len(s.Fields) > 0 {
			ss.Fields = s.Fields
		}
		out.Steps = append(out.Steps, ss)
	}
	return out
}

func TestBuiltInDefinitionsGolden(t *testing.T) {
	reg := definition.Default()
	for _, id := range reg.IDs() {
		t.Run(id, func(t *testing.T) {
			def, err := reg.Get(id)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			got := snapshotOf(def)
			path := filepath.Join("testdata", id+".golden.json")
			if testsupport.WriteGolden(t, path, got) {
				return
			}
			var want definitionSnapshot
			testsupport.MustLoadJSON(t, path, &want)
			if diff := testsupport.CompareGolden(want, got); diff != "" {
				t.Fatalf("definition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLegacyDraftRestores(t *testing.T) {
	ctx := testsupport.Context()
	team, err := definition.Default().Get(definition.TeamRegistration)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	saved := testsupport.MustLoadRecord(t, filepath.Join("testdata", "legacy-team-draft.json"))

	restored := team.Normalise(saved, func() string { return "fresh" })
	if _, ok := restored["obsoleteField"]; ok {
		t.Fatalf("expected undeclared fields to be dropped")
	}
	if got := restored["mentor"]; !got.IsSet() || got.Text != "" {
		t.Fatalf("expected empty mentor, got %#v", got)
	}
	if errs := team.Schema.Validate(restored); !errs.Empty() {
		t.Fatalf("expected restored draft to validate, got %v", errs)
	}

	engine, err := wizard.New(ctx, team)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for name, value := range restored {
		if err := engine.UpdateField(ctx, name, value); err != nil {
			t.Fatalf("update %s: %v", name, err)
		}
	}
	if err := engine.GoTo(2); err != nil {
		t.Fatalf("expected restored draft to pass every step: %v", err)
	}
	if names := engine.State().Draft["members"].Entries; len(names) != 2 || names[1].Get("name") != "Linus" {
		t.Fatalf("unexpected members %#v", names)
	}
}
