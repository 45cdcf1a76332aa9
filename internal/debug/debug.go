// Package debug carries the debug flag through contexts and configures the
// process-wide slog logger.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// ParseLogFormat accepts "text" (or empty) and "json".
func ParseLogFormat(s string) (LogFormat, error) {
	switch s {
	case "", string(LogText):
		return LogText, nil
	case string(LogJSON):
		return LogJSON, nil
	default:
		return LogText, fmt.Errorf("invalid log format %q (use 'text' or 'json')", s)
	}
}

// SetupLogger installs the default slog logger writing to w: Debug level
// when debugEnabled, Warn otherwise.
func SetupLogger(w io.Writer, format LogFormat, debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == LogJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
