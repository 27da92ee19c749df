package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// Built-in paths of the reference documentation build.
const (
	DefaultSource = "dist/pkg/github.com/ansys/allie-flowkit/pkg"
	DefaultShell  = "documentation-html/api_reference/test/index.html"
	DefaultOutput = "documentation-html/api_reference"

	DefaultStrategy = "structural"
	DefaultDebounce = 2 * time.Second
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier handles path defaults.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = DefaultSource
	}
	if cfg.Paths.Shell == "" {
		cfg.Paths.Shell = DefaultShell
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutput
	}
	return nil
}

// MarkersDefaultApplier selects the default presets.
type MarkersDefaultApplier struct{}

func (m *MarkersDefaultApplier) Domain() string { return "markers" }

func (m *MarkersDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}
	if cfg.Markers.SourcePreset == "" {
		cfg.Markers.SourcePreset = markers.GodocV1
	}
	if cfg.Markers.ShellPreset == "" {
		cfg.Markers.ShellPreset = markers.PydataSphinxV1
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return nil
}

// WatchDefaultApplier handles watch mode defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce.String()
	}
	return nil
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&PathsDefaultApplier{},
			&MarkersDefaultApplier{},
			&LoggingDefaultApplier{},
			&WatchDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}
