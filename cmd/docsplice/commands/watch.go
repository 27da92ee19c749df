package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsplice/internal/logfields"
	"git.home.luguber.info/inful/docsplice/internal/watch"
	"git.home.luguber.info/inful/docsplice/internal/workspace"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PathFlags   `embed:""`
	MetricsFile string        `name:"metrics-file" help:"Write Prometheus metrics to this textfile" type:"path"`
	Debounce    time.Duration `help:"Quiet period before a change triggers a run (default from config)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if w.MetricsFile != "" {
		cfg.Metrics.Textfile = w.MetricsFile
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce.String()
	}
	if err := w.apply(cfg); err != nil {
		return err
	}

	r, err := newRunner(cfg, g)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchBundle(ctx, r)
}

func watchBundle(ctx context.Context, r *runner) error {
	source := r.cfg.Paths.Source
	if err := os.MkdirAll(source, 0o750); err != nil {
		return err
	}

	runIfPopulated := func(ctx context.Context) error {
		empty, err := workspace.IsEmpty(source)
		if err != nil {
			return err
		}
		if empty {
			r.g.Logger.Debug("Source bundle is empty, skipping run", logfields.Path(source))
			return nil
		}
		_, err = r.run(ctx)
		return err
	}

	if err := runIfPopulated(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		r.g.Logger.Error("Initial splice failed", logfields.Error(err))
	}

	watcher, err := watch.New(source, r.cfg.Watch.DebounceDuration(), runIfPopulated, r.g.Logger)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
