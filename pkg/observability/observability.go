package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/milan604/swretail-go/pkg/config"
	"github.com/milan604/swretail-go/pkg/logger"
	"github.com/milan604/swretail-go/pkg/utils"
	"github.com/milan604/swretail-go/pkg/version"
)

// ObservabilityIface defines the interface for observability operations
type ObservabilityIface interface {
	// StartSpan creates a new span for tracing
	StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)

	// Shutdown flushes pending spans and stops the exporter
	Shutdown(ctx context.Context) error

	// GetTracer returns the tracer instance
	GetTracer() trace.Tracer
}

// Observability manages OpenTelemetry tracing.
type Observability struct {
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	log            logger.LogManager
	serviceName    string
	serviceVersion string
	exporting      bool
}

// Option customises New.
type Option func(*options)

type options struct {
	processors []sdktrace.SpanProcessor
	noGlobal   bool
}

// WithSpanProcessor registers an extra span processor, e.g. a
// tracetest.SpanRecorder in tests.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.processors = append(o.processors, sp) }
}

// WithoutGlobal keeps the tracer provider and propagator out of the otel
// globals.
func WithoutGlobal() Option {
	return func(o *options) { o.noGlobal = true }
}

// New sets up tracing for the process. Spans are exported over OTLP/HTTP
// when tracing.endpoint is set; otherwise they are only handed to the
// processors given as options.
func New(log logger.LogManager, cfg *config.Config, opts ...Option) (ObservabilityIface, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	serviceName := utils.Coalesce(cfg.GetString(config.KeyServiceName), "swretail-go")
	serviceVersion := version.Version

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}

	endpoint := cfg.GetString(config.KeyTracingEndpoint)
	if endpoint != "" {
		exporter, err := otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpointURL(endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, sp := range o.processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)

	if !o.noGlobal {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	obs := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName, trace.WithInstrumentationVersion(serviceVersion)),
		log:            log,
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
		exporting:      endpoint != "",
	}

	if obs.exporting {
		log.InfoF("Tracing initialized: service=%s, version=%s, endpoint=%s", serviceName, serviceVersion, endpoint)
	} else {
		log.DebugF("Tracing initialized without exporter: service=%s", serviceName)
	}
	return obs, nil
}

// MustNew creates a new Observability instance and panics on error
func MustNew(log logger.LogManager, cfg *config.Config, opts ...Option) ObservabilityIface {
	obs, err := New(log, cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize observability: %v", err))
	}
	return obs
}

// StartSpan creates a new span for tracing
func (o *Observability) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes and stops the tracer provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		o.log.ErrorF("failed to shutdown tracer provider: %v", err)
		return err
	}

	o.log.DebugF("Observability shutdown completed")
	return nil
}

// GetTracer returns the tracer instance
func (o *Observability) GetTracer() trace.Tracer {
	return o.tracer
}
