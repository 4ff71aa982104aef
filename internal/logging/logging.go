// Package logging builds the structured logger used across releasenotes.
//
// Three output formats are supported: a colored console format for terminals,
// logfmt-style plain text, and JSON. Every logger carries a "run" attribute
// holding a random id so log lines from a single invocation can be correlated.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Format selects the log output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// RunKey is the attribute key holding the invocation id.
const RunKey = "run"

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is text or json. Empty means text.
	Format Format
	// Color enables the colored console handler for text output.
	Color bool
	// Writer receives log output (default: os.Stderr).
	Writer io.Writer
	// RunID overrides the generated invocation id.
	RunID string
}

// New returns a logger configured by opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var handler slog.Handler
	switch Format(strings.ToLower(string(opts.Format))) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatText, "":
		if opts.Color {
			handler = newConsoleHandler(w, level)
		} else {
			handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
		}
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
	}

	return slog.New(handler).With(RunKey, runID), nil
}

// ParseLevel converts a level name into a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
	return level, nil
}
