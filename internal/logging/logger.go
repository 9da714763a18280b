// Package logging defines the structured-logging interface used by every
// portfolio component, with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "project saved", "id", p.ID, "slug", p.Slug)
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values of the log_format configuration key.
const (
	FormatSlog = "slog"
	FormatZap  = "zap"
)

// New builds a Logger writing JSON lines to w. An empty format selects slog.
func New(format string, w io.Writer) (Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case "", FormatSlog:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil))), nil
	case FormatZap:
		return NewZapProductionLogger(w), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
