package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsplice/internal/config"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
	"git.home.luguber.info/inful/docsplice/internal/metrics"
	"git.home.luguber.info/inful/docsplice/internal/observability"
	"git.home.luguber.info/inful/docsplice/internal/splice"
)

// Global is shared with every subcommand.
type Global struct {
	Out    io.Writer
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: docsplice.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Splice  SpliceCmd  `cmd:"" default:"withargs" help:"Splice the reference bundle into the site shell (default)"`
	Check   CheckCmd   `cmd:"" help:"Validate inputs and show what a splice would do"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Watch   WatchCmd   `cmd:"" help:"Splice again whenever new pages land in the bundle"`
	Markers MarkersCmd `cmd:"" help:"List marker presets"`
}

// AfterApply runs after flag parsing and sets up logging before any config is read.
func (c *CLI) AfterApply(g *Global) error {
	level, err := observability.ParseLevel(os.Getenv(config.EnvLogLevel))
	if err != nil {
		level = slog.LevelInfo
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.setLogger(observability.NewLogger(os.Stderr, level, observability.LogFormatText))
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

func (g *Global) setLogger(logger *slog.Logger) {
	g.Logger = logger
	slog.SetDefault(logger)
}

// LoadConfig reads the configuration and reconfigures logging from it. Without -c the
// default file is optional.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath)
	}
	if err != nil {
		return nil, err
	}

	level, _ := observability.ParseLevel(cfg.Logging.Level)
	if c.Verbose {
		level = slog.LevelDebug
	}
	format, _ := observability.ParseFormat(cfg.Logging.Format)
	g.setLogger(observability.NewLogger(os.Stderr, level, format))
	return cfg, nil
}

// PathFlags override configured paths and strategy.
type PathFlags struct {
	Strategy  string `help:"Splice strategy: structural or textual" placeholder:"NAME"`
	Source    string `help:"Source bundle directory" type:"path"`
	Shell     string `help:"Shell document" type:"path"`
	Output    string `help:"Output directory" type:"path"`
	Recursive bool   `help:"Also splice pages in bundle subdirectories"`
}

func (f PathFlags) apply(cfg *config.Config) error {
	if f.Strategy != "" {
		cfg.Strategy = f.Strategy
	}
	if f.Source != "" {
		cfg.Paths.Source = f.Source
	}
	if f.Shell != "" {
		cfg.Paths.Shell = f.Shell
	}
	if f.Output != "" {
		cfg.Paths.Output = f.Output
	}
	if f.Recursive {
		cfg.Recursive = true
	}
	return config.Validate(cfg)
}

// newSplicer builds a Splicer from a validated configuration.
func newSplicer(cfg *config.Config, rec metrics.Recorder, logger *slog.Logger) (*splice.Splicer, error) {
	kind, err := splice.ParseKind(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	set, err := cfg.MarkerSet()
	if err != nil {
		return nil, err
	}
	strategy, err := splice.NewStrategy(kind, set)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved markers",
		logfields.Strategy(string(kind)),
		logfields.Version(set.Source.Version),
		logfields.Marker(set.Shell.Placeholder.Selector()))
	return splice.New(strategy, splice.Options{
		SourceDir:   cfg.Paths.Source,
		ShellPath:   cfg.Paths.Shell,
		OutputDir:   cfg.Paths.Output,
		StagingRoot: cfg.Paths.StagingRoot,
		StagingDir:  cfg.Paths.StagingDir,
		IndexName:   set.Source.IndexName,
		Recursive:   cfg.Recursive,
		Recorder:    rec,
		Logger:      logger,
	})
}

// newRecorder returns a Prometheus recorder when a textfile is configured.
func newRecorder(textfile string) (metrics.Recorder, *metrics.PrometheusRecorder) {
	if textfile == "" {
		return metrics.NoopRecorder{}, nil
	}
	pr := metrics.NewPrometheusRecorder(nil)
	return pr, pr
}
