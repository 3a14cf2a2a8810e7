package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/milan604/swretail-go/pkg/logger"
)

// NewTraceLogger wraps l so that the *FCtx methods add trace_id and span_id
// fields whenever ctx carries a valid span.
func NewTraceLogger(l logger.LogManager) logger.LogManager {
	if tl, ok := l.(*TraceLogger); ok {
		return tl
	}
	return &TraceLogger{LogManager: l}
}

// TraceLogger is a LogManager that correlates log lines with spans.
type TraceLogger struct {
	logger.LogManager
}

func (l *TraceLogger) withSpan(ctx context.Context) logger.LogManager {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l.LogManager
	}
	return l.LogManager.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// DebugFCtx logs a formatted debug message with context
func (l *TraceLogger) DebugFCtx(ctx context.Context, format string, args ...any) {
	l.withSpan(ctx).DebugFCtx(ctx, format, args...)
}

// InfoFCtx logs a formatted info message with context
func (l *TraceLogger) InfoFCtx(ctx context.Context, format string, args ...any) {
	l.withSpan(ctx).InfoFCtx(ctx, format, args...)
}

// WarnFCtx logs a formatted warning message with context
func (l *TraceLogger) WarnFCtx(ctx context.Context, format string, args ...any) {
	l.withSpan(ctx).WarnFCtx(ctx, format, args...)
}

// ErrorFCtx logs a formatted error message with context
func (l *TraceLogger) ErrorFCtx(ctx context.Context, format string, args ...any) {
	l.withSpan(ctx).ErrorFCtx(ctx, format, args...)
}

// With adds fields to the logger
func (l *TraceLogger) With(keyValues ...any) logger.LogManager {
	return &TraceLogger{LogManager: l.LogManager.With(keyValues...)}
}
