// Package logging builds the structured loggers used by the CLI, renderer and web server.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New creates a logger writing to w (stderr if nil).
// format is "text" or "json"; level is one of debug, info, warn, error.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrNop returns l, or a discarding logger when l is nil
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// LogRenderStart logs the start of a render.
func LogRenderStart(ctx context.Context, l *slog.Logger, width, height, samples, workers int) {
	l.InfoContext(ctx, "generating image",
		"width", width,
		"height", height,
		"samples", samples,
		"workers", workers,
	)
}

// LogRenderDone logs a finished (or failed) render.
func LogRenderDone(ctx context.Context, l *slog.Logger, elapsed time.Duration, hits, misses int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "render failed",
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "render completed",
		"elapsed", elapsed,
		"hits", hits,
		"misses", misses,
	)
}

// LogSaved logs an image write.
func LogSaved(ctx context.Context, l *slog.Logger, path string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "saving image failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "image saved",
		"path", path,
		"bytes", bytes,
	)
}
