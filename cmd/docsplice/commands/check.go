package commands

import (
	"context"
	"fmt"
	"io"

	"git.home.luguber.info/inful/docsplice/internal/splice"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	PathFlags `embed:""`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	s, err := newSplicer(cfg, nil, g.Logger)
	if err != nil {
		return err
	}
	plan, err := s.Check(context.Background())
	if err != nil {
		return err
	}

	set, _ := cfg.MarkerSet()
	printPlan(g.Out, plan, set.Shell.Placeholder.Selector(), set.Source.IndexName)
	return nil
}

func printPlan(w io.Writer, plan *splice.Plan, placeholder, index string) {
	_, _ = fmt.Fprintf(w, "Strategy:    %s\n", plan.Strategy)
	_, _ = fmt.Fprintf(w, "Placeholder: %s (found)\n", placeholder)
	if plan.IndexPresent {
		_, _ = fmt.Fprintf(w, "Index:       %s (dropped)\n", index)
	} else {
		_, _ = fmt.Fprintf(w, "Index:       %s (not present)\n", index)
	}
	_, _ = fmt.Fprintf(w, "Documents:   %d\n", len(plan.Documents))
	for _, doc := range plan.Documents {
		_, _ = fmt.Fprintf(w, "  %s\n", doc)
	}
	if len(plan.Replaced) > 0 {
		_, _ = fmt.Fprintf(w, "Replaces:    %d existing output entries\n", len(plan.Replaced))
		for _, name := range plan.Replaced {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
}
