// Package swretail is a client for the SWRetail HTTP API.
//
// RequestAPI sends one request and folds every failure into one of three
// shapes: an *APIError for connection faults and for responses whose body
// reports an error (an errorcode member, or status "error"), a
// *http.TransportError passed through unchanged for any other transport
// failure, or a plain error from setup. 4xx and 5xx responses whose body
// carries no error marker are returned as ordinary responses.
package swretail

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/milan604/swretail-go/pkg/http"
	"github.com/milan604/swretail-go/pkg/logger"
	"github.com/milan604/swretail-go/pkg/observability"
	"github.com/milan604/swretail-go/pkg/utils"
)

const (
	instrumentationName = "github.com/milan604/swretail-go/pkg/swretail"
	spanName            = "swretail.request"
)

// Client issues SWRetail API requests. It is safe for concurrent use:
// request options are passed per call and never stored on the Client.
type Client struct {
	settings  Settings
	transport http.Doer
	logger    logger.LogManager
	tracer    trace.Tracer
	httpOpts  []http.ClientOption
	overrides []map[string]any

	mu     sync.Mutex
	reqErr error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used by the client and its transport.
func WithLogger(l logger.LogManager) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport replaces the resty transport. Transport options given with
// WithHTTPOptions or WithMetrics are ignored when this is set.
func WithTransport(d http.Doer) ClientOption {
	return func(c *Client) {
		c.transport = d
	}
}

// WithTracer sets the tracer for request spans. The global tracer provider
// is used otherwise.
func WithTracer(t trace.Tracer) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithMetrics reports every transport call to o.
func WithMetrics(o http.Observer) ClientOption {
	return WithHTTPOptions(http.WithObserver(o))
}

// WithHTTPOptions forwards options to the transport, e.g. http.WithRateLimit.
func WithHTTPOptions(opts ...http.ClientOption) ClientOption {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// WithOverrides merges overrides over the settings before the client is
// built, using the same keys as the settings file: endpoint, username,
// password, timeout, headers and insecure_skip_verify. Later overrides win.
func WithOverrides(overrides map[string]any) ClientOption {
	return func(c *Client) {
		if len(overrides) > 0 {
			c.overrides = append(c.overrides, overrides)
		}
	}
}

// New builds a Client from settings. It performs no network I/O.
func New(settings Settings, opts ...ClientOption) (*Client, error) {
	c := &Client{
		settings: settings,
		logger:   logger.NewNop(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, o := range c.overrides {
		merged, err := c.settings.Merge(o)
		if err != nil {
			return nil, err
		}
		c.settings = merged
	}
	settings = c.settings

	if c.transport == nil {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		httpOpts := append([]http.ClientOption{
			http.WithLogger(c.logger),
			http.WithRequestID(),
			http.WithTracePropagation(),
		}, c.httpOpts...)
		transport, err := http.NewClient(settings.transportConfig(), httpOpts...)
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}
	return c, nil
}

// Settings returns the settings the client was built with.
func (c *Client) Settings() Settings {
	return c.settings
}

// RequestError returns the last transport failure seen by RequestAPI, or nil.
func (c *Client) RequestError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reqErr
}

// RequestAPI builds a client from settings and sends one request with it.
func RequestAPI(ctx context.Context, settings Settings, method, path string, query, data any, opts ...ClientOption) (*http.Response, error) {
	c, err := New(settings, opts...)
	if err != nil {
		return nil, err
	}
	return c.RequestAPI(ctx, method, path, query, data)
}

// RequestAPI sends method path with an optional query and JSON body and
// checks the response body for error markers. On error the returned
// response is nil; an *APIError still carries it in its Response field.
func (c *Client) RequestAPI(ctx context.Context, method, path string, query, data any) (resp *http.Response, err error) {
	method, route := strings.ToUpper(method), utils.RelativePath(path)
	attrs := []attribute.KeyValue{observability.AttrHTTPURL.String(c.settings.BaseURL() + route)}
	if id := logger.RequestIDFrom(ctx); id != "" {
		attrs = append(attrs, observability.AttrRequestID.String(id))
	}
	ctx, _ = observability.StartClientSpan(ctx, c.tracer, spanName, method, route, attrs...)
	defer func() {
		if err != nil {
			c.logger.WarnFCtx(ctx, "swretail: %s %s failed: %v", method, route, err)
		}
		observability.EndSpan(ctx, err)
	}()

	resp, err = c.GetAPIResponse(ctx, method, path, query, data)
	if err != nil {
		resp, err = c.handleRequestError(err)
		if err != nil {
			observability.AddSpanAttributes(ctx, observability.AttrErrorKind.String(http.KindOf(err).String()))
			return nil, err
		}
		observability.AddSpanEvent(ctx, "error_status_recovered", observability.AttrHTTPStatusCode.Int(resp.StatusCode))
	}

	observability.AddSpanAttributes(ctx, observability.AttrHTTPStatusCode.Int(resp.StatusCode))
	if err = c.handleResponseErrors(resp); err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.ErrorCode != "" {
			observability.AddSpanAttributes(ctx, observability.AttrAPIErrorCode.String(apiErr.ErrorCode))
		}
		return nil, err
	}

	c.logger.DebugFCtx(ctx, "swretail: %s %s -> %d", method, route, resp.StatusCode)
	return resp, nil
}

// GetAPIResponse sends a request carrying query and data when they are
// non-empty. Each call starts from empty options.
func (c *Client) GetAPIResponse(ctx context.Context, method, path string, query, data any) (*http.Response, error) {
	var opts Options
	if !isEmpty(query) {
		opts = opts.Set(OptionQuery, query)
	}
	if !isEmpty(data) {
		opts = opts.Set(OptionJSON, data)
	}
	return c.APIRequest(ctx, method, path, opts)
}

// APIRequest upper-cases method, strips leading slashes from path and sends
// the request with opts. Transport errors are returned unchanged.
func (c *Client) APIRequest(ctx context.Context, method, path string, opts Options) (*http.Response, error) {
	req := http.Request{
		Method:  strings.ToUpper(method),
		Path:    utils.RelativePath(path),
		JSON:    opts.JSON(),
		Headers: opts.Headers(),
	}
	query, err := opts.Query()
	if err != nil {
		return nil, &http.TransportError{Kind: http.KindOther, Method: req.Method, URL: req.Path, Err: err}
	}
	req.Query = query
	return c.transport.Do(ctx, req)
}

// handleRequestError turns a failed transport call into either a response
// worth inspecting (4xx, 5xx) or the error RequestAPI returns.
func (c *Client) handleRequestError(err error) (*http.Response, error) {
	c.mu.Lock()
	c.reqErr = err
	c.mu.Unlock()

	var te *http.TransportError
	if !errors.As(err, &te) {
		return nil, err
	}
	switch te.Kind {
	case http.KindConnect:
		return nil, newConnectionError(err)
	case http.KindClient, http.KindServer:
		if te.Response != nil {
			return te.Response, nil
		}
		return nil, err
	case http.KindOK, http.KindOther:
		return nil, err
	}
	return nil, err
}

// handleResponseErrors checks the decoded body for an errorcode member and
// then for status "error", whatever the HTTP status.
func (c *Client) handleResponseErrors(resp *http.Response) error {
	if v, ok := resp.Field("errorcode"); ok && !isEmpty(v) {
		return APIErrorFromResponse(resp)
	}
	if status, _ := resp.Field("status"); status == "error" {
		return newStatusError(resp)
	}
	return nil
}
