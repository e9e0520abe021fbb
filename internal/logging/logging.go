// Package logging builds the process logger from host settings.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/splitshot/internal/config"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn, error; empty means info
	File   string    // Append logs to this file; empty means Output
	Output io.Writer // Used when File is empty; nil discards
	Prefix string
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FILE.
func OptionsFromEnv(prefix string, output io.Writer) Options {
	return Options{
		Level:  config.GetEnv("LOG_LEVEL", "info"),
		File:   config.GetEnv("LOG_FILE", ""),
		Output: output,
		Prefix: prefix,
	}
}

// New returns a structured logger and a close function for any opened file.
func New(opts Options) (*log.Logger, func() error, error) {
	closer := func() error { return nil }

	out := opts.Output
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}
	if out == nil {
		out = io.Discard
	}

	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			_ = closer()
			return nil, func() error { return nil }, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
