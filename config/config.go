// Package config loads runtime settings for the unlock CLI.
//
// Values are resolved with priority env > YAML file > defaults. A missing
// file is not an error; an unparsable one is.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/unlock/accumulate"
	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/toggle"
)

// ErrInvalidConfig is returned by Validate and by Load for bad values.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variable names.
const (
	EnvWorkers       = "UNLOCK_WORKERS"
	EnvFailFast      = "UNLOCK_FAIL_FAST"
	EnvMaxStates     = "UNLOCK_MAX_STATES"
	EnvMaxExpansions = "UNLOCK_MAX_EXPANSIONS"
	EnvLogLevel      = "UNLOCK_LOG_LEVEL"
	EnvLogFormat     = "UNLOCK_LOG_FORMAT"
	EnvMetricsAddr   = "UNLOCK_METRICS_ADDR"
)

// Config holds everything the CLI needs to run a batch.
type Config struct {
	// Workers bounds concurrent searches. Zero means one per CPU.
	Workers int `yaml:"workers"`

	// FailFast stops a batch on the first failing machine.
	FailFast bool `yaml:"fail_fast"`

	// MaxStates caps toggle searches. Zero disables the cap.
	MaxStates int `yaml:"max_states"`

	// MaxExpansions caps accumulation searches. Zero disables the cap.
	MaxExpansions int `yaml:"max_expansions"`

	// ProgressInterval throttles Info progress lines.
	ProgressInterval time.Duration `yaml:"progress_interval"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ProgressInterval: time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load starts from Default, applies the YAML file at path (if path is
// non-empty and the file exists), then environment overrides, and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config, lookup func(string) (string, bool)) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvWorkers, &cfg.Workers},
		{EnvMaxStates, &cfg.MaxStates},
		{EnvMaxExpansions, &cfg.MaxExpansions},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, e.name, v)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvFailFast); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvFailFast, v)
		}
		cfg.FailFast = b
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Log.Format = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		cfg.Metrics.Addr = v
	}

	return nil
}

// Validate rejects negative limits and unknown log settings.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	case c.MaxStates < 0:
		return fmt.Errorf("%w: max_states must be >= 0", ErrInvalidConfig)
	case c.MaxExpansions < 0:
		return fmt.Errorf("%w: max_expansions must be >= 0", ErrInvalidConfig)
	case c.ProgressInterval < 0:
		return fmt.Errorf("%w: progress_interval must be >= 0", ErrInvalidConfig)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// BatchOptions translates the search settings into batch options.
func (c Config) BatchOptions() []batch.Option {
	opts := []batch.Option{batch.WithWorkers(c.Workers)}
	if c.FailFast {
		opts = append(opts, batch.WithFailFast())
	}
	if c.MaxStates > 0 {
		opts = append(opts, batch.WithToggleOptions(toggle.WithMaxStates(c.MaxStates)))
	}
	if c.MaxExpansions > 0 {
		opts = append(opts, batch.WithAccumulateOptions(accumulate.WithMaxExpansions(c.MaxExpansions)))
	}

	return opts
}

// Logger builds a slog.Logger writing to w in the configured format.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	ho := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, ho)), nil
	}

	return slog.New(slog.NewTextHandler(w, ho)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, s)
	}

	return l, nil
}
