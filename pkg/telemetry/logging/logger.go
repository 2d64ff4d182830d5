// Package logging constructs the structured loggers used across the
// Hercules configuration runtime. It is a thin layer over log/slog: level
// and format parsing plus sane defaults, shared by the CLI and tests.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat is the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
)

// Config contains configuration for a logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string

	// Format is the output format ("json", "text").
	// Default: "text"
	Format string

	// Writer is the output writer. Default: os.Stderr
	Writer io.Writer
}

// New creates a structured logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch LogFormat(cfg.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	case FormatText, "":
		handler = slog.NewTextHandler(writer, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'json' or 'text'", cfg.Format)
	}

	return slog.New(handler), nil
}

// parseLevel converts a level string to a slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
}
