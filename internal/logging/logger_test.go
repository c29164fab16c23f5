package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerAddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(&buf, "info")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoWithTracing(ctx, "subscriber created", logrus.Fields{"email": "a@example.com"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "subscriber created", line["message"])
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
	assert.Equal(t, "a@example.com", line["email"])
}

func TestLoggerWarnCarriesError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(&buf, "warn")

	logger.InfoWithTracing(context.Background(), "suppressed", nil)
	logger.WarnWithTracing(context.Background(), "mail failed", errors.New("smtp down"), nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "smtp down", line["error"])
	assert.NotContains(t, line, "trace_id")
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	logger := NewLoggerWithOutput(&bytes.Buffer{}, "chatty")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestLoggerDebugOnlyAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithOutput(&buf, "info").DebugWithTracing(context.Background(), "hidden", nil)
	assert.Zero(t, buf.Len())

	NewLoggerWithOutput(&buf, "debug").DebugWithTracing(context.Background(), "cache miss", logrus.Fields{"cache_key": "content:global"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "content:global", line["cache_key"])
}
