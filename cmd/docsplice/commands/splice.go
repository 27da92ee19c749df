package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsplice/internal/config"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
	"git.home.luguber.info/inful/docsplice/internal/metrics"
	"git.home.luguber.info/inful/docsplice/internal/splice"
)

// SpliceCmd implements the 'splice' command.
type SpliceCmd struct {
	PathFlags   `embed:""`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile" type:"path"`
}

func (s *SpliceCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if s.MetricsFile != "" {
		cfg.Metrics.Textfile = s.MetricsFile
	}
	if err := s.apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := newRunner(cfg, g)
	if err != nil {
		return err
	}
	_, err = r.run(ctx)
	return err
}

// runner performs splice runs for one configuration, accumulating metrics across runs.
type runner struct {
	cfg      *config.Config
	g        *Global
	splicer  *splice.Splicer
	exporter *metrics.PrometheusRecorder
}

func newRunner(cfg *config.Config, g *Global) (*runner, error) {
	rec, exporter := newRecorder(cfg.Metrics.Textfile)
	s, err := newSplicer(cfg, rec, g.Logger)
	if err != nil {
		return nil, err
	}
	return &runner{cfg: cfg, g: g, splicer: s, exporter: exporter}, nil
}

func (r *runner) run(ctx context.Context) (*splice.Report, error) {
	report, err := r.splicer.Run(ctx)
	r.exportMetrics()
	if err != nil {
		return report, err
	}

	_, _ = fmt.Fprintf(r.g.Out, "Spliced %d documents into %s using the %s strategy (%s)\n",
		len(report.Documents), r.cfg.Paths.Output, report.Strategy, report.Duration.Round(time.Millisecond))
	return report, nil
}

func (r *runner) exportMetrics() {
	if r.exporter == nil {
		return
	}
	if err := r.exporter.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		r.g.Logger.Warn("Failed to write metrics textfile", logfields.Path(r.cfg.Metrics.Textfile), logfields.Error(err))
	}
}
