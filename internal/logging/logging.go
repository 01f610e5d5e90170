// Package logging builds the zerolog logger shared by the server and tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// #region config

// Config selects log level and output format.
type Config struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" for production or "console" for development.
	Format string `koanf:"format"`
}

// DefaultConfig returns the production logging policy.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// #endregion config

// #region constructor

// New builds a logger writing to out (os.Stderr when nil).
func New(cfg Config, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// #endregion constructor
