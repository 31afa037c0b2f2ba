package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/librarydesk/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("librarydesk")

	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "isbn lookup started", "isbn", "9780134685991")
	})
}

func Test_SlogBridgeLoggerWithHandler_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler("desk", handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message", "key", "value")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")
	logger.Info("plain info", "ticket", "t-1")

	// assert
	output := buf.String()
	assert.Contains(t, output, "level=DEBUG msg=\"debug message\"")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "level=INFO msg=\"info message\"")
	assert.Contains(t, output, "level=WARN msg=\"warn message\"")
	assert.Contains(t, output, "level=ERROR msg=\"error message\"")
	assert.Contains(t, output, "ticket=t-1")
	assert.Contains(t, output, "logger=desk", "Should tag records with the logger name")
}

func Test_SlogBridgeLoggerWithHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler("desk", handler)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func Test_OTelLogger_EmitsRecords(t *testing.T) {
	// arrange
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.WarnContext(context.Background(), "remote request failed",
		"path", "book/all",
		"status_code", 503,
		"dangling",
	)

	// assert
	assert.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, log.SeverityWarn, record.severity)
	assert.Equal(t, "remote request failed", record.body)
	assert.Equal(t, "book/all", record.attrs["path"].AsString())
	assert.Equal(t, int64(503), record.attrs["status_code"].AsInt64())
	assert.NotContains(t, record.attrs, "dangling", "Should drop a key without value")
}

func Test_OTelLogger_AllLevelsWithNoop(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug", "k", 1.5)
		logger.InfoContext(ctx, "info", "k", true)
		logger.WarnContext(ctx, "warn", 42, "non-string key is skipped")
		logger.ErrorContext(ctx, "error", "k", struct{ A int }{1})
	})
}

type capturedRecord struct {
	severity log.Severity
	body     string
	attrs    map[string]log.Value
}

type recordingLogger struct {
	noop.Logger
	records []capturedRecord
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	captured := capturedRecord{
		severity: record.Severity(),
		body:     record.Body().AsString(),
		attrs:    map[string]log.Value{},
	}

	record.WalkAttributes(func(kv log.KeyValue) bool {
		captured.attrs[kv.Key] = kv.Value
		return true
	})

	l.records = append(l.records, captured)
}
