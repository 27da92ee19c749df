// Package observability sets up structured logging for docsplice.
package observability

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/docsplice/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsplice/internal/logfields"
)

// LogContext holds structured logging context carried through a splice run.
type LogContext struct {
	RunID    string
	Stage    string
	Document string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := GetContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := GetContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithDocument adds the document being processed to the context.
func WithDocument(ctx context.Context, doc string) context.Context {
	lc := GetContext(ctx)
	lc.Document = doc
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext retrieves the LogContext from ctx, or an empty one.
func GetContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var attrs []slog.Attr
	if lc.RunID != "" {
		attrs = append(attrs, slog.String("run.id", lc.RunID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Document != "" {
		attrs = append(attrs, slog.String("document", lc.Document))
	}
	return attrs
}

// ContextHandler decorates records logged with a context carrying a LogContext.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

var (
	levelNormalizer = normalization.NewNormalizer("log level", map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}, slog.LevelInfo)

	formatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
		"text": LogFormatText,
		"json": LogFormatJSON,
	}, LogFormatText)
)

// ParseLevel converts a level name; empty input means info.
func ParseLevel(raw string) (slog.Level, error) {
	return levelNormalizer.Parse(raw)
}

// ParseFormat converts a format name; empty input means text.
func ParseFormat(raw string) (LogFormat, error) {
	return formatNormalizer.Parse(raw)
}

// NewLogger builds the process logger.
func NewLogger(w io.Writer, level slog.Level, format LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	if format == LogFormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewContextHandler(inner))
}
