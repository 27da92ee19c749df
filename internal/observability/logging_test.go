package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithStage(ctx, "transform")
	ctx = WithDocument(ctx, "a.html")

	lc := GetContext(ctx)
	assert.Equal(t, LogContext{RunID: "run-1", Stage: "transform", Document: "a.html"}, lc)
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestContextHandler_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, LogFormatJSON)

	ctx := WithStage(WithRunID(context.Background(), "run-7"), "publish")
	logger.InfoContext(ctx, "Published entries", "count", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Published entries", rec["msg"])
	assert.Equal(t, "run-7", rec["run.id"])
	assert.Equal(t, "publish", rec["stage"])
	assert.InDelta(t, 3, rec["count"], 0)
}

func TestContextHandler_WithAttrsKeepsDecoration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug, LogFormatText).With("strategy", "textual")

	logger.DebugContext(WithDocument(context.Background(), "b.html"), "Cleaned document")

	out := buf.String()
	assert.Contains(t, out, "strategy=textual")
	assert.Contains(t, out, "document=b.html")
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn, LogFormatText)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevelAndFormat(t *testing.T) {
	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, LogFormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
