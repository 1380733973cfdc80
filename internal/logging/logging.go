// Package logging builds the slog loggers handed to every component.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// LevelTrace sits below slog.LevelDebug and carries per-line parser and
// command detail.
const LevelTrace = slog.Level(-8)

// LevelForVerbosity maps a -v count to a log level.
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelInfo
	case verbosity == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// New returns a text logger writing to w. A quiet logger drops everything.
func New(w io.Writer, verbosity int, quiet bool) *slog.Logger {
	if quiet {
		return Discard()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       LevelForVerbosity(verbosity),
		ReplaceAttr: replaceLevelName,
	}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Trace logs at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level <= LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }
func (d discardHandler) WithGroup(string) slog.Handler { return d }
