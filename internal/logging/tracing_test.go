package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/guildhall/mmoawards/internal/logging"
)

func TestCloudTraceLogHandler(t *testing.T) {
	t.Parallel()

	traceID := trace.TraceID{0x0a, 0xf7, 0x65, 0x19, 0x16, 0xcd, 0x43, 0xdd, 0x84, 0x48, 0xeb, 0x21, 0x1c, 0x80, 0x31, 0x9c}
	spanID := trace.SpanID{0xb7, 0xad, 0x6b, 0x71, 0x69, 0x20, 0x33, 0x31}

	spanContext := func(flags trace.TraceFlags) context.Context {
		return trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: flags,
		}))
	}

	logOnce := func(t *testing.T, ctx context.Context, project string) map[string]any {
		t.Helper()
		buf := &bytes.Buffer{}
		handler := logging.NewCloudTraceLogHandler(slog.NewJSONHandler(buf, nil), project)
		slog.New(handler).With(slog.String("command", "awards list")).InfoContext(ctx, "listed")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "awards list", entry["command"])
		return entry
	}

	t.Run("sampled span", func(t *testing.T) {
		t.Parallel()
		entry := logOnce(t, spanContext(trace.FlagsSampled), "guildhall-prod")
		require.Equal(t, "projects/guildhall-prod/traces/0af7651916cd43dd8448eb211c80319c", entry["logging.googleapis.com/trace"])
		require.Equal(t, "b7ad6b7169203331", entry["logging.googleapis.com/spanId"])
		require.Equal(t, true, entry["logging.googleapis.com/trace_sampled"])
	})

	t.Run("unsampled span", func(t *testing.T) {
		t.Parallel()
		entry := logOnce(t, spanContext(0), "guildhall-prod")
		require.Equal(t, false, entry["logging.googleapis.com/trace_sampled"])
	})

	t.Run("no span", func(t *testing.T) {
		t.Parallel()
		entry := logOnce(t, t.Context(), "guildhall-prod")
		require.NotContains(t, entry, "logging.googleapis.com/trace")
		require.NotContains(t, entry, "logging.googleapis.com/spanId")
	})

	t.Run("no project", func(t *testing.T) {
		t.Parallel()
		base := slog.NewJSONHandler(&bytes.Buffer{}, nil)
		require.Same(t, base, logging.NewCloudTraceLogHandler(base, ""))

		entry := logOnce(t, spanContext(trace.FlagsSampled), "")
		require.NotContains(t, entry, "logging.googleapis.com/trace")
	})
}
