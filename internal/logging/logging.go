// Package logging configures the structured log written next to the config.
//
// The TUI owns the terminal, so diagnostics go to a JSON log file instead of
// stderr. One-shot commands keep printing [verbose] lines to stderr as well.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileName is the log file created inside the config directory
const FileName = "luz.log"

// New returns a JSON logger writing to w. verbose enables debug records.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Discard returns a logger that drops every record
func Discard() zerolog.Logger {
	return zerolog.Nop()
}

// Setup opens dir/luz.log for appending and returns a logger writing to it
// with a close function.
func Setup(dir string, verbose bool) (zerolog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := New(f, verbose).With().Int("pid", os.Getpid()).Logger()
	return logger, f.Close, nil
}
