package definition_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func TestDefault_BuiltInWizards(t *testing.T) {
	reg := definition.Default()
	want := []string{definition.IdeaSubmission, definition.Onboarding, definition.TeamRegistration}
	if diff := cmp.Diff(want, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	team, err := reg.Get(definition.TeamRegistration)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if team.Key() != "teamRegistrationData" || team.Progress != stepper.ProgressInclusive {
		t.Fatalf("unexpected team settings: key=%q progress=%v", team.Key(), team.Progress)
	}
	steps := make([][]string, 0, len(team.Steps))
	for _, step := range team.Steps {
		steps = append(steps, step.Fields)
	}
	wantSteps := [][]string{{"teamName", "coreSkill"}, {"teamLeader", "mentor"}, {"members"}}
	if diff := cmp.Diff(wantSteps, steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	onboarding, err := reg.Get(definition.Onboarding)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if onboarding.Progress != stepper.ProgressExclusive || len(onboarding.Steps) != 4 || !onboarding.Steps[3].Summary {
		t.Fatalf("unexpected onboarding definition: %#v", onboarding)
	}
}

func TestTeamRegistrationRules(t *testing.T) {
	team, err := definition.Default().Get(definition.TeamRegistration)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	record := team.Defaults(func() string { return "m1" })
	record["teamName"] = model.Text("A")

	got := team.Schema.Validate(record)
	want := validation.Errors{
		"teamName":        "Team name must be at least 2 characters.",
		"coreSkill":       "Core skill must be at least 2 characters.",
		"teamLeader":      "Team leader name is required.",
		"members[0].name": "Member name must be at least 2 characters.",
		"members[0].role": "Member role must be at least 2 characters.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestIdeaSubmissionDrivesEngine(t *testing.T) {
	ctx := context.Background()
	idea, err := definition.Default().Get(definition.IdeaSubmission)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	engine, err := wizard.New(ctx, idea)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := engine.UpdateField(ctx, "title", model.Text("Solar kiosks")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := engine.UpdateField(ctx, "description", model.Text("too short")); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err = engine.Submit(ctx)
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := validation.Errors{
		"description": "Description must be at least 10 characters.",
		"impact":      "Impact description must be at least 10 characters.",
	}
	if diff := cmp.Diff(want, verr.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_FieldsAndRules(t *testing.T) {
	raw := `
id: event
progress: exclusive
fields:
  - name: email
  - name: day
    kind: date
    default: "2024-06-01"
  - name: seats
    kind: number
    default: "12"
steps:
  - fields: [email, day, seats]
rules:
  - field: email
    rule: required
    message: Email is required.
  - field: email
    rule: pattern
    pattern: "^[^@]+@[^@]+$"
  - field: day
    rule: type
    type: date
`
	def, err := definition.Parse([]byte(raw), "event.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Key() != "event" || def.Progress != stepper.ProgressExclusive {
		t.Fatalf("unexpected settings: %#v", def)
	}
	seats, _ := def.Field("seats")
	if !seats.Default.Equal(model.Number(12)) {
		t.Fatalf("unexpected seats default %#v", seats.Default)
	}
	email, _ := def.Field("email")
	if email.Kind != model.KindText {
		t.Fatalf("expected kind to default to text, got %q", email.Kind)
	}

	errs := def.Schema.Validate(model.Record{"email": model.Text("nope")})
	if got := errs["email"]; got != "has an invalid format" {
		t.Fatalf("unexpected email message %q", got)
	}
	errs = def.Schema.Validate(model.Record{})
	if got := errs["email"]; got != "Email is required." {
		t.Fatalf("unexpected email message %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"not a document": "[1, 2",
		"unknown rule":   "id: x\nfields: [{name: a}]\nsteps: [{fields: [a]}]\nrules: [{field: a, rule: maxLength}]",
		"bad pattern":    "id: x\nfields: [{name: a}]\nsteps: [{fields: [a]}]\nrules: [{field: a, rule: pattern, pattern: '('}]",
		"unknown step":   "id: x\nfields: [{name: a}]\nsteps: [{fields: [b]}]",
		"bad progress":   "id: x\nprogress: sideways\nfields: [{name: a}]\nsteps: [{fields: [a]}]",
		"list default":   "id: x\nfields: [{name: a, kind: list, default: y, entryFields: [{name: n}]}]\nsteps: [{fields: [a]}]",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := definition.Parse([]byte(raw), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParse_ReportsYAMLPosition(t *testing.T) {
	raw := "id: x\nfields: [{name: a}]\nsteps: [{fields: [a]}\n"
	_, err := definition.Parse([]byte(raw), "broken.yaml")
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"broken.yaml", "yaml: line "} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json":       {Data: []byte(`{"id":"a","fields":[{"name":"x"}],"steps":[{"fields":["x"]}]}`)},
		"nested/b.yml": {Data: []byte("id: b\nfields: [{name: y}]\nsteps: [{fields: [y]}]\n")},
		"README.md":    {Data: []byte("ignored")},
	}
	reg, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("c"); !errors.Is(err, definition.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	dup := fstest.MapFS{
		"one.yaml": {Data: []byte("id: a\nfields: [{name: x}]\nsteps: [{fields: [x]}]\n")},
		"two.yaml": {Data: []byte("id: a\nfields: [{name: x}]\nsteps: [{fields: [x]}]\n")},
	}
	if _, err := definition.LoadFS(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}
