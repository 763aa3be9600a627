// Package config loads host configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/comalice/gamechart"
)

// Config is the configuration of a chart host such as cmd/demo.
type Config struct {
	ChartFile             string        `env:"GAMECHART_CHART_FILE"`
	TickRate              time.Duration `env:"GAMECHART_TICK_RATE" envDefault:"16ms"`
	MaxEventsPerTick      int           `env:"GAMECHART_MAX_EVENTS_PER_TICK" envDefault:"1000"`
	ValidateEvents        bool          `env:"GAMECHART_VALIDATE_EVENTS" envDefault:"false"`
	ValidateVariableNames bool          `env:"GAMECHART_VALIDATE_VARIABLE_NAMES" envDefault:"false"`
	ValidateVariableTypes bool          `env:"GAMECHART_VALIDATE_VARIABLE_TYPES" envDefault:"false"`
	LogLevel              string        `env:"GAMECHART_LOG_LEVEL" envDefault:"info"`
	SnapshotDir           string        `env:"GAMECHART_SNAPSHOT_DIR" envDefault:"snapshots"`
	SnapshotFormat        string        `env:"GAMECHART_SNAPSHOT_FORMAT" envDefault:"json"`
	TracingEnabled        bool          `env:"GAMECHART_TRACING_ENABLED" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges the environment parser cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %v", c.TickRate))
	}
	if c.MaxEventsPerTick <= 0 {
		errs = append(errs, fmt.Errorf("max events per tick must be positive, got %d", c.MaxEventsPerTick))
	}
	switch strings.ToLower(c.SnapshotFormat) {
	case "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("unknown snapshot format %q", c.SnapshotFormat))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, info when unparsable.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ChartOptions returns the chart options implied by the validation flags.
func (c Config) ChartOptions() []gamechart.Option {
	var opts []gamechart.Option
	if c.ValidateEvents {
		opts = append(opts, gamechart.WithEventValidation())
	}
	if c.ValidateVariableNames {
		opts = append(opts, gamechart.WithVariableNameValidation())
	}
	if c.ValidateVariableTypes {
		opts = append(opts, gamechart.WithVariableTypeValidation())
	}
	return opts
}
