package openapi_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const teamDocument = `
openapi: 3.0.3
info:
  title: Teams
  version: 1.0.0
paths: {}
components:
  schemas:
    Team:
      type: object
      title: Team Registration
      x-order: [teamName, coreSkill, teamLeader, members]
      required: [teamName]
      properties:
        teamName:
          type: string
          title: Team Name
          minLength: 2
          x-message: Team name must be at least 2 characters.
          x-step: Team
        coreSkill:
          type: string
          minLength: 2
          x-step: Team
        teamLeader:
          type: string
          x-step: Leadership
        founded:
          type: string
          format: date
        headcount:
          type: integer
          default: 3
        members:
          type: array
          minItems: 1
          x-message: At least one team member is required.
          items:
            type: object
            x-order: [name, role]
            required: [name]
            properties:
              name:
                type: string
                title: Name
                minLength: 2
              role:
                type: string
                pattern: "^[A-Za-z ]+$"
`

func TestImport_Team(t *testing.T) {
	def, err := openapi.Import(context.Background(), []byte(teamDocument), "Team",
		openapi.WithPersistenceKey("teamDraft"),
		openapi.WithProgress(stepper.ProgressExclusive),
		openapi.WithFieldsPerStep(2),
	)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if def.ID != "Team" || def.Title != "Team Registration" || def.Key() != "teamDraft" {
		t.Fatalf("unexpected identity: %q %q %q", def.ID, def.Title, def.Key())
	}

	names := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	wantNames := []string{"teamName", "coreSkill", "teamLeader", "members", "founded", "headcount"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []wizard.Step{
		{Title: "Team", Fields: []string{"teamName", "coreSkill"}},
		{Title: "Leadership", Fields: []string{"teamLeader"}},
		{Title: "Step 1", Fields: []string{"members", "founded"}},
		{Title: "Step 2", Fields: []string{"headcount"}},
	}
	if diff := cmp.Diff(wantSteps, def.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	members, _ := def.Field("members")
	if members.Kind != model.KindList || members.MinEntries != 1 {
		t.Fatalf("unexpected members field %#v", members)
	}
	wantSubs := []wizard.SubField{{Name: "name", Label: "Name"}, {Name: "role", Label: "role"}}
	if diff := cmp.Diff(wantSubs, members.EntryFields); diff != "" {
		t.Fatalf("entry fields mismatch (-want +got):\n%s", diff)
	}
	founded, _ := def.Field("founded")
	if founded.Kind != model.KindDate {
		t.Fatalf("expected date kind, got %q", founded.Kind)
	}
	headcount, _ := def.Field("headcount")
	if !headcount.Default.Equal(model.Number(3)) {
		t.Fatalf("unexpected default %#v", headcount.Default)
	}
}

func TestImport_RulesValidate(t *testing.T) {
	def, err := openapi.Import(context.Background(), []byte(teamDocument), "Team")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	record := def.Defaults(func() string { return "e1" })
	record["teamName"] = model.Text("A")
	record["members"] = model.List(model.Entry{ID: "e1", Fields: map[string]string{"name": "Ada", "role": "R2"}})

	got := def.Schema.Validate(record)
	want := validation.Errors{
		"teamName":        "Team name must be at least 2 characters.",
		"coreSkill":       "must be at least 2 characters",
		"members[0].role": "has an invalid format",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	record["members"] = model.Empty(model.KindList)
	if msg := def.Schema.Validate(record)["members"]; msg != "At least one team member is required." {
		t.Fatalf("unexpected members message %q", msg)
	}
}

func TestImport_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := openapi.Import(ctx, []byte(teamDocument), "Missing"); !errors.Is(err, openapi.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
	if _, err := openapi.Import(ctx, nil, "Team"); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	scalarArray := `
openapi: 3.0.3
info: {title: x, version: "1"}
paths: {}
components:
  schemas:
    Tags:
      type: object
      properties:
        tags:
          type: array
          items: {type: string}
`
	if _, err := openapi.Import(ctx, []byte(scalarArray), "Tags"); !errors.Is(err, openapi.ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestImportFS(t *testing.T) {
	fsys := fstest.MapFS{"schemas/team.yaml": {Data: []byte(teamDocument)}}
	def, err := openapi.ImportFS(context.Background(), fsys, "schemas/team.yaml", "Team", openapi.WithID("team"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if def.ID != "team" {
		t.Fatalf("unexpected id %q", def.ID)
	}
	if _, err := openapi.ImportFS(context.Background(), fsys, "nope.yaml", "Team"); err == nil {
		t.Fatalf("expected read error")
	}
}
