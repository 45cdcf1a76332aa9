package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	if !IsEnabled(WithDebug(context.Background(), true)) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
	if IsEnabled(WithDebug(context.Background(), false)) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestParseLogFormat(t *testing.T) {
	for in, want := range map[string]LogFormat{"": LogText, "text": LogText, "json": LogJSON} {
		got, err := ParseLogFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseLogFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseLogFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetupLogger_Levels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	SetupLogger(&buf, LogText, true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}

	SetupLogger(&buf, LogText, false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be disabled")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn level should stay enabled")
	}
}

func TestSetupLogger_JSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	SetupLogger(&buf, LogJSON, true)
	slog.Debug("request complete", "status", 200)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["msg"] != "request complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
}
