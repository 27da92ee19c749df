// Package config loads the docsplice YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docsplice.yaml"

// EnvLogLevel overrides logging.level.
const EnvLogLevel = "DOCSPLICE_LOG_LEVEL"

// Config is the docsplice configuration file.
type Config struct {
	Strategy  string        `yaml:"strategy"`
	Paths     PathsConfig   `yaml:"paths"`
	Recursive bool          `yaml:"recursive"`
	Markers   MarkersConfig `yaml:"markers"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Watch     WatchConfig   `yaml:"watch"`
}

// PathsConfig locates the inputs and outputs of a run.
type PathsConfig struct {
	Source string `yaml:"source"` // generated reference bundle
	Shell  string `yaml:"shell"`  // themed shell document
	Output string `yaml:"output"` // published reference tree
	// StagingRoot holds per-run staging directories. Empty means the parent of Output,
	// which keeps publishing a same-filesystem rename.
	StagingRoot string `yaml:"staging_root,omitempty"`
	// StagingDir pins staging to one directory, emptied after each run.
	StagingDir string `yaml:"staging_dir,omitempty"`
}

// MarkersConfig selects marker presets and optional overrides.
type MarkersConfig struct {
	SourcePreset string            `yaml:"source_preset"`
	ShellPreset  string            `yaml:"shell_preset"`
	Strip        []markers.Matcher `yaml:"strip,omitempty"`
	Placeholder  *markers.Matcher  `yaml:"placeholder,omitempty"`
	IndexName    string            `yaml:"index_name,omitempty"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DebounceDuration returns the parsed debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.FileSystemError(err, "read configuration file").WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(path))
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the built-in defaults when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		loadEnvFiles()
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
		cfg := &Config{}
		if err := finish(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Parse decodes configuration YAML after ${VAR} expansion.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func finish(cfg *Config) error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	return Validate(cfg)
}
