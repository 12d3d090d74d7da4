package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-formwizard/pkg/assessment"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
	textAreas []string
	selects   []int
}

var errNotScripted = errors.New("no input scripted")

func pop[T any](queue *[]T) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, errNotScripted
	}
	val := (*queue)[0]
	*queue = (*queue)[1:]
	return val, nil
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return pop(&d.inputs)
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	return pop(&d.passwords)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, errNotScripted
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return pop(&d.selects)
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return pop(&d.textAreas)
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BIZCRAFT_STORE", "file")
	t.Setenv("BIZCRAFT_DATA_DIR", t.TempDir())
	t.Setenv("BIZCRAFT_LOG_LEVEL", "error")
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	a.out = &buf
	cmd := newRootCmd(a)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestDomains(t *testing.T) {
	testEnv(t)
	out, err := execute(t, newApp(nil), "domains")
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	if !strings.HasPrefix(out, "Healthcare\n") {
		t.Fatalf("unexpected domains output %q", out)
	}

	out, err = execute(t, newApp(nil), "domains", "--domain", "Healthcare")
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	if !strings.Contains(out, "[Healthcare] #1 (120 votes)") {
		t.Fatalf("unexpected problems output %q", out)
	}
}

func TestDescribe(t *testing.T) {
	testEnv(t)
	out, err := execute(t, newApp(nil), "describe", "Problem")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected guidance text")
	}
	if _, err := execute(t, newApp(nil), "describe", "pricing"); !errors.Is(err, assessment.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	testEnv(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-1",
		"email": "ada@example.com",
		"name":  "Ada",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "hunter22" {
			_, _ = w.Write([]byte(`{"success":false,"msg":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"msg":     "Login successful",
			"payload": map[string]string{"token": token},
		})
	}))
	defer srv.Close()
	t.Setenv("BIZCRAFT_AUTH_URL", srv.URL)

	_, err = execute(t, newApp(nil), "login", "--email", "ada@example.com", "--password", "nope")
	if err == nil || errorMessage(err) != "Invalid credentials" {
		t.Fatalf("expected rejected login, got %v", err)
	}
	out, _ := execute(t, newApp(nil), "whoami")
	if out != "Not logged in.\n" {
		t.Fatalf("expected no session, got %q", out)
	}

	a := newApp(nil)
	a.driver = &scriptedDriver{passwords: []string{"hunter22"}}
	out, err = execute(t, a, "login", "--email", "ada@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out != "Login successful\n" {
		t.Fatalf("unexpected login output %q", out)
	}

	out, err = execute(t, newApp(nil), "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	for _, want := range []string{"Subject: u-1", "Name:    Ada", "Email:   ada@example.com"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	if _, err := execute(t, newApp(nil), "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out, _ := execute(t, newApp(nil), "whoami"); out != "Not logged in.\n" {
		t.Fatalf("expected session to be gone, got %q", out)
	}
}

func TestIdeaWizardSubmitsAssessment(t *testing.T) {
	testEnv(t)
	a := newApp(nil)
	a.provider = assessment.StaticProvider{Result: assessment.Result{
		Novelty:         80,
		MarketRelevance: 55.5,
		Feasibility:     40,
		IsExisting:      true,
	}}
	a.driver = &scriptedDriver{
		inputs:    []string{"Solar kiosks"},
		textAreas: []string{"Kiosks that charge phones from the sun.", "Cheaper charging for rural markets."},
		selects:   []int{0}, // Submit
	}

	out, err := execute(t, a, "idea")
	if err != nil {
		t.Fatalf("idea: %v", err)
	}
	for _, want := range []string{
		"Idea submitted successfully",
		`Assessment for "Solar kiosks"`,
		"80.0%",
		"55.5%",
		"similar existing ideas",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = execute(t, newApp(nil), "drafts", "list")
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	if out != "No saved drafts.\n" {
		t.Fatalf("expected the draft to be cleared after submission, got %q", out)
	}
}

func TestTeamWizardQuitKeepsDraft(t *testing.T) {
	testEnv(t)
	a := newApp(nil)
	a.driver = &scriptedDriver{
		inputs:  []string{"Rocket", "AI"},
		selects: []int{1}, // Save and quit
	}
	out, err := execute(t, a, "team")
	if err != nil {
		t.Fatalf("team: %v", err)
	}
	if !strings.Contains(out, "Draft saved.") {
		t.Fatalf("unexpected output %q", out)
	}

	out, _ = execute(t, newApp(nil), "drafts", "list")
	if out != "team-registration\n" {
		t.Fatalf("expected team draft, got %q", out)
	}
	if _, err := execute(t, newApp(nil), "drafts", "clear", "team-registration"); err != nil {
		t.Fatalf("drafts clear: %v", err)
	}
	out, _ = execute(t, newApp(nil), "drafts", "list")
	if out != "No saved drafts.\n" {
		t.Fatalf("expected drafts to be cleared, got %q", out)
	}
}

func TestChat(t *testing.T) {
	testEnv(t)
	a := newApp(nil)
	a.driver = &scriptedDriver{inputs: []string{"hello", ""}}
	out, err := execute(t, a, "chat")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	want := "AI: Thank you for your message: \"hello\". How can I assist you further with your idea?\n"
	if out != want {
		t.Fatalf("unexpected chat output %q", out)
	}
}

func TestCheck(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("id: x\nfields: [{name: a}]\nsteps: [{fields: [a]}]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(bad, []byte("id: x\nfields: [{name: a}]\nsteps: [{fields: [b]}]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, newApp(nil), "check", good, bad)
	if err == nil {
		t.Fatalf("expected failure for bad file")
	}
	if !strings.Contains(out, good+": ok") || !strings.Contains(out, bad+": ") {
		t.Fatalf("unexpected check output %q", out)
	}
}
