package splice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
	"git.home.luguber.info/inful/docsplice/internal/metrics"
	"git.home.luguber.info/inful/docsplice/internal/observability"
	"git.home.luguber.info/inful/docsplice/internal/workspace"
)

// Stage names, in execution order.
const (
	StagePrepare   = "prepare"
	StageRelocate  = "relocate"
	StageDropIndex = "drop_index"
	StageTransform = "transform"
	StagePublish   = "publish"
	StageFinalize  = "finalize"
)

// Options configures a Splicer.
type Options struct {
	// SourceDir holds the generated reference pages. It is emptied after a successful run.
	SourceDir string
	// ShellPath is the shell document every page is merged into.
	ShellPath string
	// OutputDir receives the spliced pages.
	OutputDir string
	// StagingRoot is the parent of the per-run staging directory. Empty means the
	// parent of OutputDir, which keeps the final rename on one filesystem.
	StagingRoot string
	// StagingDir, when set, is used as the staging directory itself instead of a
	// uniquely named one.
	StagingDir string
	// IndexName is the bundle index dropped before transforming.
	IndexName string
	// Recursive also splices pages in subdirectories of the bundle.
	Recursive bool

	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Report summarizes a splice run.
type Report struct {
	RunID        string
	Strategy     Kind
	Relocated    int
	IndexDropped bool
	Documents    []string
	Stripped     map[string]int
	Published    []string
	Duration     time.Duration
}

// Splicer runs the splice operation with one strategy.
type Splicer struct {
	strategy Strategy
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New validates opts and returns a Splicer.
func New(strategy Strategy, opts Options) (*Splicer, error) {
	if strategy == nil {
		return nil, ferrors.InternalError("strategy is required").Build()
	}
	for name, v := range map[string]string{"source": opts.SourceDir, "shell": opts.ShellPath, "output": opts.OutputDir} {
		if strings.TrimSpace(v) == "" {
			return nil, ferrors.ConfigError(name + " path is required").Build()
		}
	}
	if opts.IndexName == "" {
		opts.IndexName = "index.html"
	}
	if opts.StagingRoot == "" {
		opts.StagingRoot = filepath.Dir(filepath.Clean(opts.OutputDir))
	}

	s := &Splicer{strategy: strategy, opts: opts, recorder: opts.Recorder, logger: opts.Logger}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Run performs one splice. On error nothing has been published and the source
// bundle is unchanged, unless the failure happened while publishing.
func (s *Splicer) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		Strategy: s.strategy.Kind(),
		Stripped: make(map[string]int),
	}
	ctx = observability.WithRunID(ctx, report.RunID)

	err := s.run(ctx, report)
	report.Duration = time.Since(started)
	s.recorder.ObserveRunDuration(report.Duration)

	switch {
	case err == nil:
		s.recorder.IncRunOutcome(metrics.ResultSuccess)
		s.logger.InfoContext(ctx, "Splice completed",
			logfields.Strategy(string(report.Strategy)),
			logfields.Count(len(report.Documents)),
			logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	case errors.Is(err, context.Canceled):
		s.recorder.IncRunOutcome(metrics.ResultCanceled)
		err = ferrors.CanceledError(err, "splice run canceled").WithContext("run_id", report.RunID).Build()
	default:
		s.recorder.IncRunOutcome(metrics.ResultFailed)
	}
	return report, err
}

func (s *Splicer) run(ctx context.Context, report *Report) error {
	shell, err := s.loadShell()
	if err != nil {
		return err
	}
	if err := s.checkSource(); err != nil {
		return err
	}
	if err := s.checkCollisions(s.opts.StagingDir); err != nil {
		return err
	}

	var ws *workspace.Manager
	if s.opts.StagingDir != "" {
		ws = workspace.NewFixedManager(s.opts.StagingDir)
	} else {
		ws = workspace.NewManager(s.opts.StagingRoot)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			s.logger.WarnContext(ctx, "Failed to clean up staging directory", logfields.Error(err))
		}
	}()

	if err := s.stage(ctx, StagePrepare, func(context.Context) error {
		if err := ws.Create(); err != nil {
			return ferrors.FileSystemError(err, "prepare staging directory").WithContext("path", s.opts.StagingRoot).Build()
		}
		return nil
	}); err != nil {
		return err
	}
	staging := ws.GetPath()
	s.logger.DebugContext(ctx, "Prepared staging directory", logfields.Path(staging), slog.Bool("fixed", ws.IsFixed()))

	if err := s.stage(ctx, StageRelocate, func(context.Context) error {
		names, err := workspace.CopyEntries(s.opts.SourceDir, staging)
		report.Relocated = len(names)
		if err != nil {
			return ferrors.FileSystemError(err, "relocate source bundle").WithContext("path", s.opts.SourceDir).Build()
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, StageDropIndex, func(ctx context.Context) error {
		dropped, err := s.dropIndex(ctx, staging)
		report.IndexDropped = dropped
		return err
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, StageTransform, func(ctx context.Context) error {
		return s.transformAll(ctx, staging, shell, report)
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, StagePublish, func(context.Context) error {
		names, err := workspace.MoveEntries(staging, s.opts.OutputDir)
		report.Published = names
		if err != nil {
			return ferrors.FileSystemError(err, "publish staged documents").WithContext("path", s.opts.OutputDir).Build()
		}
		return nil
	}); err != nil {
		return err
	}

	return s.stage(ctx, StageFinalize, func(context.Context) error {
		if err := workspace.EmptyDir(s.opts.SourceDir); err != nil {
			return ferrors.FileSystemError(err, "empty source bundle").WithContext("path", s.opts.SourceDir).Build()
		}
		return nil
	})
}

// stage runs fn with timing, metrics and a stage-scoped log context.
func (s *Splicer) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	ctx = observability.WithStage(ctx, name)
	started := time.Now()
	err := fn(ctx)
	elapsed := time.Since(started)
	s.recorder.ObserveStageDuration(name, elapsed)

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		s.logger.DebugContext(ctx, "Stage completed", logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	case errors.Is(err, context.Canceled):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFailed)
		s.logger.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	}
	return err
}

// loadShell reads the shell document and confirms it has a merge target.
func (s *Splicer) loadShell() ([]byte, error) {
	shell, err := os.ReadFile(filepath.Clean(s.opts.ShellPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NotFoundError(err, "read shell document").WithContext("path", s.opts.ShellPath).Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError(err, "read shell document").WithContext("path", s.opts.ShellPath).Build()
	}
	if _, err := s.strategy.Splice(shell, ""); err != nil {
		return nil, err
	}
	return shell, nil
}

func (s *Splicer) checkSource() error {
	info, err := os.Stat(s.opts.SourceDir)
	if errors.Is(err, fs.ErrNotExist) {
		return ferrors.NotFoundError(err, "open source bundle").WithContext("path", s.opts.SourceDir).Build()
	}
	if err != nil {
		return ferrors.FileSystemError(err, "open source bundle").WithContext("path", s.opts.SourceDir).Build()
	}
	if !info.IsDir() {
		return ferrors.FileSystemError(ErrSourceNotDirectory, "open source bundle").WithContext("path", s.opts.SourceDir).Build()
	}
	return nil
}

// checkCollisions fails when publishing a bundle entry would replace the shell
// document or a fixed staging directory. Publishing replaces same-named output
// entries wholesale.
func (s *Splicer) checkCollisions(staging string) error {
	entries, err := os.ReadDir(s.opts.SourceDir)
	if err != nil {
		return ferrors.FileSystemError(err, "read source bundle").WithContext("path", s.opts.SourceDir).Build()
	}

	protected := map[string]string{"shell document": s.opts.ShellPath}
	if staging != "" {
		protected["staging directory"] = staging
	}
	for _, entry := range entries {
		if entry.Name() == s.opts.IndexName {
			continue
		}
		target := filepath.Join(s.opts.OutputDir, entry.Name())
		for what, path := range protected {
			if within(target, path) {
				return ferrors.ValidationError("bundle entry would replace the "+what).
					WithContext("entry", entry.Name()).
					WithContext("path", path).
					Build()
			}
		}
	}
	return nil
}

// within reports whether path is dir itself or lies below it.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (s *Splicer) dropIndex(ctx context.Context, staging string) (bool, error) {
	index := filepath.Join(staging, s.opts.IndexName)
	err := os.Remove(index)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "Dropped bundle index", logfields.File(s.opts.IndexName))
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		s.logger.WarnContext(ctx, "Bundle index not found", logfields.File(s.opts.IndexName))
		return false, nil
	default:
		return false, ferrors.FileSystemError(err, "drop bundle index").WithContext("path", index).Build()
	}
}

func (s *Splicer) transformAll(ctx context.Context, staging string, shell []byte, report *Report) error {
	docs, err := ListDocuments(staging, s.opts.Recursive)
	if err != nil {
		return ferrors.FileSystemError(err, "list staged documents").WithContext("path", staging).Build()
	}

	kind := string(s.strategy.Kind())
	for _, rel := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		cleaned, err := s.transform(observability.WithDocument(ctx, rel), filepath.Join(staging, rel), shell)
		if err != nil {
			s.recorder.IncDocument(kind, metrics.ResultFailed)
			return fmt.Errorf("%s: %w", rel, err)
		}
		s.recorder.IncDocument(kind, metrics.ResultSuccess)
		for _, label := range cleaned.Stripped {
			report.Stripped[label]++
			s.recorder.AddStripped(label, 1)
		}
		report.Documents = append(report.Documents, rel)
	}
	return nil
}

// transform rewrites one staged page in place as the merged document.
func (s *Splicer) transform(ctx context.Context, path string, shell []byte) (*Cleaned, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "stat staged document").WithContext("path", path).Build()
	}
	source, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, ferrors.FileSystemError(err, "read staged document").WithContext("path", path).Build()
	}

	cleaned, err := s.strategy.Clean(source)
	if err != nil {
		return nil, err
	}
	merged, err := s.strategy.Splice(shell, cleaned.Fragment)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, merged, info.Mode().Perm()); err != nil {
		return nil, ferrors.FileSystemError(err, "write staged document").WithContext("path", path).Build()
	}

	s.logger.DebugContext(ctx, "Spliced document",
		logfields.Count(len(cleaned.Stripped)),
		slog.String("charset", cleaned.Charset))
	return cleaned, nil
}

// ListDocuments returns the *.html files in dir relative to it, sorted. Subdirectories
// are searched only when recursive is set.
func ListDocuments(dir string, recursive bool) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		docs = append(docs, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(docs)
	return docs, nil
}

// Plan describes what a run would do with the current inputs.
type Plan struct {
	Strategy  Kind
	Documents []string
	// IndexPresent reports whether the bundle index exists and will be dropped.
	IndexPresent bool
	// Replaced lists output entries a publish would overwrite.
	Replaced []string
}

// Check validates the shell and the source bundle without touching the filesystem.
func (s *Splicer) Check(ctx context.Context) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.loadShell(); err != nil {
		return nil, err
	}
	if err := s.checkSource(); err != nil {
		return nil, err
	}
	if err := s.checkCollisions(s.opts.StagingDir); err != nil {
		return nil, err
	}

	docs, err := ListDocuments(s.opts.SourceDir, s.opts.Recursive)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "list source documents").WithContext("path", s.opts.SourceDir).Build()
	}

	plan := &Plan{Strategy: s.strategy.Kind()}
	for _, rel := range docs {
		if rel == s.opts.IndexName {
			plan.IndexPresent = true
			continue
		}
		plan.Documents = append(plan.Documents, rel)
	}

	entries, err := os.ReadDir(s.opts.SourceDir)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "read source bundle").WithContext("path", s.opts.SourceDir).Build()
	}
	for _, entry := range entries {
		if entry.Name() == s.opts.IndexName {
			continue
		}
		if _, err := os.Lstat(filepath.Join(s.opts.OutputDir, entry.Name())); err == nil {
			plan.Replaced = append(plan.Replaced, entry.Name())
		}
	}
	return plan, nil
}
