// Package config loads the YAML configuration of the kektortree tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/sanonone/kektortree/pkg/core/orthtree"
)

// Config is the root of the configuration file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Tree    TreeConfig    `yaml:"tree"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig selects the zerolog level, output format and an optional rotated
// log file.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console, json or auto (console on a terminal)

	// File additionally writes JSON logs to a rotated file.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TreeConfig drives the construction of a point index.
type TreeConfig struct {
	MaxDepth   int     `yaml:"max_depth"`
	BucketSize int     `yaml:"bucket_size"`
	Grade      bool    `yaml:"grade"`
	CubicBbox  bool    `yaml:"cubic_bbox"`
	Padding    float64 `yaml:"padding"`
}

// MetricsConfig controls the prometheus collectors.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// IndexName is the index_name label used by the CLI.
	IndexName string `yaml:"index_name"`
}

// ErrInvalidConfig is wrapped by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultConfig returns a configuration usable without a file.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "auto",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Tree: TreeConfig{
			MaxDepth:   10,
			BucketSize: 20,
			Grade:      false,
			CubicBbox:  true,
			Padding:    0,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			IndexName: "default",
		},
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are an
// error. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := decode(file, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("YAML syntax error in config: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Tree.MaxDepth < 0 || c.Tree.MaxDepth > orthtree.MaxDepth {
		return fmt.Errorf("%w: tree.max_depth must be between 0 and %d, got %d", ErrInvalidConfig, orthtree.MaxDepth, c.Tree.MaxDepth)
	}
	if c.Tree.BucketSize < 1 {
		return fmt.Errorf("%w: tree.bucket_size must be positive, got %d", ErrInvalidConfig, c.Tree.BucketSize)
	}
	if c.Tree.Padding < 0 {
		return fmt.Errorf("%w: tree.padding must not be negative, got %g", ErrInvalidConfig, c.Tree.Padding)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	switch c.Log.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("%w: log.format must be console, json or auto, got %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// NewLogger builds the zerolog logger described by c, writing to w and, when
// File is set, to a rotated file.
func (c LogConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	if c.console(w) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	if c.File != "" {
		w = zerolog.MultiLevelWriter(w, &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		})
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func (c LogConfig) console(w io.Writer) bool {
	switch c.Format {
	case "console":
		return true
	case "auto":
		f, ok := w.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	return false
}
