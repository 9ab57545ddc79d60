// Package logging builds the process-wide slog logger.
//
// Text output goes through tint (colored, kitchen time, source location).
// JSON output is meant for log collectors.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info), used when no level is configured
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options controls the logger built by New.
type Options struct {
	// Level is debug, info, warn or error. Empty reads LOG_LEVEL.
	Level string
	// Format is text (default) or json.
	Format Format
	// NoColor disables ANSI colors in text output.
	NoColor bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	name := opts.Level
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	level := ParseLevel(name)

	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: true}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    opts.NoColor,
	}))
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(opts Options) *slog.Logger {
	logger := New(os.Stderr, opts)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel is lenient: case and surrounding space are ignored, "warning"
// is accepted, and anything unknown is INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
