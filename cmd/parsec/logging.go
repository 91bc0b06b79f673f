package main

import (
	"log/slog"

	"github.com/shibukawa/parsec"
)

// newLogger builds the stderr logger. Quiet raises the level to errors,
// verbose lowers it to debug.
func newLogger(ctx *Context, config *parsec.Config) *slog.Logger {
	level := config.SlogLevel()

	switch {
	case ctx.Quiet:
		level = slog.LevelError
	case ctx.Verbose && level > slog.LevelDebug:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(ctx.Stderr, &slog.HandlerOptions{Level: level}))
}

// newTracer returns a debug-level logger for parse traces, or nil when
// tracing is off.
func newTracer(ctx *Context, enabled bool) *slog.Logger {
	if !enabled {
		return nil
	}

	return slog.New(slog.NewTextHandler(ctx.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
