package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"template", TemplateError(stderrors.New("no article"), "no placeholder").Build(), 7},
		{"not found", NotFoundError(stderrors.New("ENOENT"), "open bundle").Build(), 11},
		{"filesystem", FileSystemError(stderrors.New("EACCES"), "move").Build(), 11},
		{"parse", ParseError(stderrors.New("bad"), "parse").Build(), 11},
		{"internal", InternalError("boom").Build(), 10},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), 130},
		{"classified canceled", CanceledError(context.Canceled, "run canceled").Build(), 130},
		{"unclassified", stderrors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := TemplateError(stderrors.New("no article"), "shell has no placeholder").WithContext("shell", "index.html").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	assert.Equal(t, "Error: shell has no placeholder (use -v for details)", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	assert.Equal(t, "Error: [template] shell has no placeholder: no article (shell=index.html)", verbose.FormatError(err))

	assert.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_Handle(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out

	code := adapter.Handle(FileSystemError(stderrors.New("EACCES"), "publish entry").WithContext("path", "a.html").Build())

	assert.Equal(t, 11, code)
	assert.Contains(t, logs.String(), "publish entry")
	assert.Contains(t, logs.String(), "category=filesystem")
	assert.Contains(t, logs.String(), "path=a.html")
	assert.Contains(t, out.String(), "publish entry")
	assert.Equal(t, 0, adapter.Handle(nil))
}

func TestCLIErrorAdapter_HandleCanceledAsWarning(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out

	code := adapter.Handle(CanceledError(context.Canceled, "splice run canceled").Build())

	assert.Equal(t, 130, code)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "category=canceled")
}
