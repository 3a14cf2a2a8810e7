package http

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/milan604/swretail-go/pkg/logger"
)

// HeaderRequestID carries the request id to the API.
const HeaderRequestID = "X-Request-ID"

// WithRequestID sets X-Request-ID on every request, taken from the context
// (logger.WithRequestID) or freshly generated.
func WithRequestID() ClientOption {
	return WithRequestHook(func(r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) != "" {
			return nil
		}
		id := logger.RequestIDFrom(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		r.SetHeader(HeaderRequestID, id)
		return nil
	})
}

// WithTracePropagation injects the context's trace headers (W3C traceparent
// by default) using the global OpenTelemetry propagator.
func WithTracePropagation() ClientOption {
	return WithRequestHook(func(r *resty.Request) error {
		otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
		return nil
	})
}
