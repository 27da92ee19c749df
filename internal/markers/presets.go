package markers

import (
	"fmt"
	"maps"
	"sort"
)

const (
	// GodocV1 is the page layout written by the godoc static generator: a wide and a
	// narrow "top-heading" banner plus a "menu-button" toggle ahead of the package docs.
	GodocV1 = "godoc/v1"

	// PydataSphinxV1 is the pydata-sphinx-theme layout whose main content lives in
	// <article class="bd-article" role="main">.
	PydataSphinxV1 = "pydata-sphinx/v1"

	DefaultIndexName = "index.html"
)

// SourceSet describes the chrome of generated source pages.
type SourceSet struct {
	Version   string    `yaml:"version"`
	Strip     []Matcher `yaml:"strip"`
	IndexName string    `yaml:"index_name"`
}

// ShellSet describes the merge target inside the shell document.
type ShellSet struct {
	Version     string  `yaml:"version"`
	Placeholder Matcher `yaml:"placeholder"`
}

// Set is the full marker configuration handed to a splice strategy.
type Set struct {
	Source SourceSet
	Shell  ShellSet
}

var sourcePresets = map[string]SourceSet{
	GodocV1: {
		Version: GodocV1,
		Strip: []Matcher{
			{Name: "top-heading", Tag: "div", Classes: []string{"top-heading"}},
			{Name: "menu-button", Tag: "a", ID: "menu-button"},
		},
		IndexName: DefaultIndexName,
	},
}

var shellPresets = map[string]ShellSet{
	PydataSphinxV1: {
		Version: PydataSphinxV1,
		Placeholder: Matcher{
			Name:    "main-article",
			Tag:     "article",
			Classes: []string{"bd-article"},
			Attrs:   map[string]string{"role": "main"},
		},
	},
}

// LookupSource returns a copy of the named source preset.
func LookupSource(version string) (SourceSet, error) {
	preset, ok := sourcePresets[version]
	if !ok {
		return SourceSet{}, fmt.Errorf("unknown source marker preset %q (known: %v)", version, SourceVersions())
	}
	preset.Strip = append([]Matcher(nil), preset.Strip...)
	return preset, nil
}

// LookupShell returns a copy of the named shell preset.
func LookupShell(version string) (ShellSet, error) {
	preset, ok := shellPresets[version]
	if !ok {
		return ShellSet{}, fmt.Errorf("unknown shell marker preset %q (known: %v)", version, ShellVersions())
	}
	preset.Placeholder.Attrs = maps.Clone(preset.Placeholder.Attrs)
	return preset, nil
}

// Default returns the presets matching the reference documentation build.
func Default() Set {
	src, _ := LookupSource(GodocV1)
	shell, _ := LookupShell(PydataSphinxV1)
	return Set{Source: src, Shell: shell}
}

// SourceVersions lists registered source presets.
func SourceVersions() []string {
	out := make([]string, 0, len(sourcePresets))
	for k := range sourcePresets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ShellVersions lists registered shell presets.
func ShellVersions() []string {
	out := make([]string, 0, len(shellPresets))
	for k := range shellPresets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks every matcher in the set.
func (s Set) Validate() error {
	for _, m := range s.Source.Strip {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if s.Source.IndexName == "" {
		return fmt.Errorf("source markers %q: index name is required", s.Source.Version)
	}
	return s.Shell.Placeholder.Validate()
}
