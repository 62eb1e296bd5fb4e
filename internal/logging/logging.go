// Package logging builds the zerolog logger. The TUI owns the terminal, so
// logs go to a file unless a writer is supplied.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	File       string // empty means DefaultFile()
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// DefaultFile is the log path used when none is configured.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "codefix.log")
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger writing to w in the configured format.
func New(cfg Config, w io.Writer) zerolog.Logger {
	output := w
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: cfg.TimeFormat,
			NoColor:    true,
		}
	}
	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// Open creates a logger appending to cfg.File. The returned func closes it.
func Open(cfg Config) (zerolog.Logger, func() error, error) {
	path := cfg.File
	if path == "" {
		path = DefaultFile()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), func() error { return nil }, fmt.Errorf("create log dir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }, fmt.Errorf("open log file %s: %w", path, err)
	}
	logger := New(cfg, f)
	logger.Debug().Str("path", path).Msg("logger initialized")
	return logger, f.Close, nil
}
