package config

import (
	"maps"

	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// MarkerSet resolves the configured presets and applies overrides.
func (c *Config) MarkerSet() (markers.Set, error) {
	src, err := markers.LookupSource(c.Markers.SourcePreset)
	if err != nil {
		return markers.Set{}, err
	}
	shell, err := markers.LookupShell(c.Markers.ShellPreset)
	if err != nil {
		return markers.Set{}, err
	}

	if c.Markers.Strip != nil {
		src.Strip = append([]markers.Matcher(nil), c.Markers.Strip...)
	}
	if c.Markers.IndexName != "" {
		src.IndexName = c.Markers.IndexName
	}
	if c.Markers.Placeholder != nil {
		p := *c.Markers.Placeholder
		p.Attrs = maps.Clone(p.Attrs)
		shell.Placeholder = p
	}

	set := markers.Set{Source: src, Shell: shell}
	if err := set.Validate(); err != nil {
		return markers.Set{}, err
	}
	return set, nil
}
