package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func setup(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := Setup(level, format, &buf); err != nil {
		t.Fatalf("Setup(%q, %q): %v", level, format, err)
	}
	return &buf
}

func TestNew_HasComponent(t *testing.T) {
	buf := setup(t, "debug", "text")

	New(ComponentExec).Info("exec.start")

	output := buf.String()
	if !strings.Contains(output, "component=exec") {
		t.Errorf("expected component=exec in output, got: %s", output)
	}
	if !strings.Contains(output, "app=screpd") {
		t.Errorf("expected app=screpd in output, got: %s", output)
	}
	if !strings.Contains(output, "exec.start") {
		t.Errorf("expected 'exec.start' in output, got: %s", output)
	}
}

func TestSetup_JSONFormat(t *testing.T) {
	buf := setup(t, "info", "JSON")

	New(ComponentRunner).Info("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
	if !strings.Contains(output, `"component":"runner"`) {
		t.Errorf("expected JSON component field, got: %s", output)
	}
}

func TestSetup_LevelGating(t *testing.T) {
	buf := setup(t, "warn", "")

	logger := New(ComponentServe)
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be suppressed") {
		t.Error("Info message should be suppressed at Warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("Warn message should appear at Warn level")
	}
}

func TestSetup_Rejects(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup("loud", "text", &buf); err == nil {
		t.Error("Setup(loud) succeeded, want error")
	}
	if err := Setup("info", "xml", &buf); err == nil {
		t.Error("Setup(format xml) succeeded, want error")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
