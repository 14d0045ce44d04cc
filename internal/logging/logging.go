package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// App is attached to every record.
const App = "screpd"

// Components used across the daemon and CLI.
const (
	ComponentExec   = "exec"
	ComponentRunner = "runner"
	ComponentServe  = "serve"
)

// Setup installs the global slog default from the SCREPD_LOG_LEVEL and
// SCREPD_LOG_FORMAT settings. A nil w logs to os.Stderr.
func Setup(level, format string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	slog.SetDefault(slog.New(handler).With(slog.String("app", App)))
	return nil
}

// New returns the default logger scoped to component.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
