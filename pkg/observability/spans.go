package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartClientSpan starts a client-kind span for an outgoing API call.
func StartClientSpan(ctx context.Context, tracer trace.Tracer, name, method, route string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
	}, attrs...)
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan ends the span in ctx, recording err when it is non-nil.
func EndSpan(ctx context.Context, err error) {
	span := SpanFromContext(ctx)
	if err != nil {
		RecordSpanError(ctx, err)
	} else if span.IsRecording() {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
