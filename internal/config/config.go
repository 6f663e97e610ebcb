// Package config loads dirscan settings from a YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration directory and file.
const AppName = "dirscan"

// EnvPrefix prefixes environment overrides, e.g. DIRSCAN_LOG_LEVEL.
const EnvPrefix = "DIRSCAN"

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config stores all configuration of the application.
type Config struct {
	// Observers lists the observers to run, in order.
	Observers []string `mapstructure:"observers" yaml:"observers" validate:"min=1,dive,oneof=dirtree summary listing"`
	// Format is the rendering of the directory report.
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text flat json"`
	// Output is the rendering of the summary and listing observers.
	Output string `mapstructure:"output" yaml:"output" validate:"oneof=table json"`
	// Parallel selects the fastwalk engine.
	Parallel bool `mapstructure:"parallel" yaml:"parallel"`
	// Workers bounds the parallel engine (0=automatic).
	Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=0"`
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int `mapstructure:"depth" yaml:"depth" validate:"gte=0"`
	// Excludes contains regex patterns to exclude.
	Excludes []string `mapstructure:"excludes" yaml:"excludes"`
	// IgnoreFile is a gitignore-style file of paths to skip.
	IgnoreFile string `mapstructure:"ignore_file" yaml:"ignore_file"`
	// Extensions filters the summary by file suffix.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	// MinSize is the minimum file size counted by the summary (e.g. 1KB).
	MinSize string `mapstructure:"min_size" yaml:"min_size"`
	// Top is the number of largest files in the summary.
	Top int `mapstructure:"top" yaml:"top" validate:"gte=1"`
	// ProgressInterval controls the progress line cadence.
	ProgressInterval time.Duration `mapstructure:"progress_interval" yaml:"progress_interval" validate:"gte=0"`
	// Log configures diagnostics.
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Observers:        []string{"dirtree"},
		Format:           "text",
		Output:           "table",
		Excludes:         []string{},
		Extensions:       []string{},
		MinSize:          "0B",
		Top:              10,
		ProgressInterval: 500 * time.Millisecond,
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// flagKeys maps command-line flags to configuration keys.
//
//nolint:gochecknoglobals // Config constant
var flagKeys = map[string]string{
	"observer":    "observers",
	"format":      "format",
	"output":      "output",
	"parallel":    "parallel",
	"workers":     "workers",
	"depth":       "depth",
	"exclude":     "excludes",
	"ignore-file": "ignore_file",
	"ext":         "extensions",
	"min-size":    "min_size",
	"top":         "top",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// Dir returns the default configuration directory.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	return filepath.Join(dir, AppName)
}

// DefaultPath returns the default configuration file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// setDefaults registers every key so that environment variables are picked up on Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("observers", d.Observers)
	v.SetDefault("format", d.Format)
	v.SetDefault("output", d.Output)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("depth", d.Depth)
	v.SetDefault("excludes", d.Excludes)
	v.SetDefault("ignore_file", d.IgnoreFile)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("min_size", d.MinSize)
	v.SetDefault("top", d.Top)
	v.SetDefault("progress_interval", d.ProgressInterval)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads configuration with precedence flags > environment > file > defaults.
// An explicit path must exist; the default file is optional. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints and the minimum size.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if _, err := c.MinSizeBytes(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// MinSizeBytes parses MinSize; empty means zero.
func (c Config) MinSizeBytes() (uint64, error) {
	if c.MinSize == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.MinSize)
	if err != nil {
		return 0, fmt.Errorf("invalid min-size: %w", err)
	}

	return size, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Config is not secret
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
