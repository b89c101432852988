package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// https://docs.cloud.google.com/logging/docs/agent/logging/configuration#special-fields
const (
	cloudTraceKey        = "logging.googleapis.com/trace"
	cloudSpanIDKey       = "logging.googleapis.com/spanId"
	cloudTraceSampledKey = "logging.googleapis.com/trace_sampled"
)

// NewCloudTraceLogHandler links log records to their trace in Cloud Logging.
// Without a project the base handler is returned unchanged.
//
// NOTE: Only the *Context slog methods carry the span
func NewCloudTraceLogHandler(baseHandler slog.Handler, project string) slog.Handler {
	if project == "" {
		return baseHandler
	}
	return cloudTraceLogHandler{Handler: baseHandler, tracePrefix: "projects/" + project + "/traces/"}
}

type cloudTraceLogHandler struct {
	slog.Handler
	tracePrefix string
}

func (h cloudTraceLogHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.traceAttrs(trace.SpanContextFromContext(ctx))...)
	return h.Handler.Handle(ctx, r)
}

func (h cloudTraceLogHandler) traceAttrs(sc trace.SpanContext) []slog.Attr {
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String(cloudTraceKey, h.tracePrefix+sc.TraceID().String()),
		slog.String(cloudSpanIDKey, sc.SpanID().String()),
		slog.Bool(cloudTraceSampledKey, sc.IsSampled()),
	}
}

func (h cloudTraceLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return cloudTraceLogHandler{Handler: h.Handler.WithAttrs(attrs), tracePrefix: h.tracePrefix}
}

func (h cloudTraceLogHandler) WithGroup(name string) slog.Handler {
	return cloudTraceLogHandler{Handler: h.Handler.WithGroup(name), tracePrefix: h.tracePrefix}
}
