package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "info", FormatJSON)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("autosave failed")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "autosave failed" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewWithWriter_DefaultsToWarnConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "WARN") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNew_InvalidInput(t *testing.T) {
	if _, err := New("chatty", FormatConsole); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
