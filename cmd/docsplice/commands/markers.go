package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// MarkersCmd implements the 'markers' command.
type MarkersCmd struct{}

func (m *MarkersCmd) Run(g *Global) error {
	_, _ = fmt.Fprintln(g.Out, "Source presets:")
	for _, v := range markers.SourceVersions() {
		set, err := markers.LookupSource(v)
		if err != nil {
			return err
		}
		selectors := make([]string, 0, len(set.Strip))
		for _, s := range set.Strip {
			selectors = append(selectors, s.Selector())
		}
		_, _ = fmt.Fprintf(g.Out, "  %-18s strip %s, index %s\n", v, strings.Join(selectors, " "), set.IndexName)
	}

	_, _ = fmt.Fprintln(g.Out, "Shell presets:")
	for _, v := range markers.ShellVersions() {
		set, err := markers.LookupShell(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(g.Out, "  %-18s placeholder %s\n", v, set.Placeholder.Selector())
	}
	return nil
}
