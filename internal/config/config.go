// Package config loads layered configuration: built-in defaults, then an
// optional YAML file, then PALATE_-prefixed environment variables, each
// layer overriding the last.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/platefeed/palate/internal/logging"
)

// #region config

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  logging.Config `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// EngineConfig holds aggregation policy settings.
type EngineConfig struct {
	// Alpha is the exponential-smoothing weight in (0, 1).
	Alpha float64 `koanf:"alpha"`

	// PersonaMinSignals gates persona classification.
	PersonaMinSignals int64 `koanf:"persona_min_signals"`

	// LogAppendTimeout bounds the background signal-log append.
	LogAppendTimeout time.Duration `koanf:"log_append_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{Path: "palate.db"},
		Engine: EngineConfig{
			Alpha:             0.15,
			PersonaMinSignals: 5,
			LogAppendTimeout:  5 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// #endregion config

// #region load

const envPrefix = "PALATE_"

// Load layers defaults, an optional YAML file, and environment variables.
// An empty path skips the file layer.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Double underscore separates hierarchy so single underscores survive in
	// key names: PALATE_SERVER__PORT -> server.port,
	// PALATE_ENGINE__PERSONA_MIN_SIGNALS -> engine.persona_min_signals.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Engine.Alpha <= 0 || c.Engine.Alpha >= 1 {
		return fmt.Errorf("engine alpha %f must be in (0, 1)", c.Engine.Alpha)
	}
	if c.Engine.PersonaMinSignals < 1 {
		return fmt.Errorf("persona_min_signals %d must be at least 1", c.Engine.PersonaMinSignals)
	}
	return nil
}

// #endregion load
