package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milan604/swretail-go/pkg/config"
	"github.com/milan604/swretail-go/pkg/logger"
)

func newTestObservability(t *testing.T) (ObservabilityIface, *tracetest.SpanRecorder) {
	t.Helper()
	cfg, err := config.Load(config.WithDefaults(config.DefaultSettings()))
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	obs, err := New(logger.NewNop(), cfg, WithSpanProcessor(recorder), WithoutGlobal())
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })
	return obs, recorder
}

func TestStartClientSpan(t *testing.T) {
	obs, recorder := newTestObservability(t)

	ctx, _ := StartClientSpan(context.Background(), obs.GetTracer(), "swretail.request", "GET", "items")
	AddSpanAttributes(ctx, AttrHTTPStatusCode.Int(200))
	AddSpanEvent(ctx, "error_status_recovered")
	EndSpan(ctx, nil)

	failedCtx, _ := obs.StartSpan(context.Background(), "failing")
	EndSpan(failedCtx, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "GET", attrs["http.method"])
	assert.Equal(t, "items", attrs["http.route"])
	assert.Equal(t, "200", attrs["http.status_code"])

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
	v, ok := spans[1].Resource().Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "swretail-go", v.AsString())
}

func TestRecordSpanError(t *testing.T) {
	obs, recorder := newTestObservability(t)

	ctx, span := obs.StartSpan(context.Background(), "op")
	RecordSpanError(ctx, errors.New("bad"))
	RecordSpanError(ctx, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Same(t, span, SpanFromContext(ctx))
}

func TestTraceLogger(t *testing.T) {
	obs, _ := newTestObservability(t)
	core, logs := observer.New(zap.DebugLevel)
	l := NewTraceLogger(logger.NewWithCore(core))
	assert.Same(t, l, NewTraceLogger(l))

	ctx, span := obs.StartSpan(context.Background(), "op")
	l.InfoFCtx(ctx, "inside %s", "span")
	span.End()
	l.With("component", "test").WarnFCtx(context.Background(), "outside")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "inside span", entries[0].Message)
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])

	fields = entries[1].ContextMap()
	assert.NotContains(t, fields, "trace_id")
	assert.Equal(t, "test", fields["component"])
}
