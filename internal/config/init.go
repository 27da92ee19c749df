package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Strategy: DefaultStrategy,
		Paths: PathsConfig{
			Source: DefaultSource,
			Shell:  DefaultShell,
			Output: DefaultOutput,
		},
		Markers: MarkersConfig{
			SourcePreset: markers.GodocV1,
			ShellPreset:  markers.PydataSphinxV1,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Textfile: "${DOCSPLICE_METRICS_TEXTFILE}"},
		Watch:   WatchConfig{Debounce: DefaultDebounce.String()},
	}
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
