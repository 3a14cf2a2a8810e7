package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/milan604/swretail-go/pkg/logger"
	"github.com/milan604/swretail-go/pkg/utils"
)

const maxLoggedBody = 512

// Client is the resty backed transport. Every received response goes through
// the response-mapping middleware, which builds the *Response and runs the
// response hooks.
type Client struct {
	resty         *resty.Client
	cfg           Config
	httpClient    *http.Client
	logger        logger.LogManager
	requestHooks  []RequestHook
	responseHooks []ResponseHook
	observers     []Observer
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[*Response]
}

// RequestHook is a function that can modify a request before it's sent.
type RequestHook func(*resty.Request) error

// ResponseHook is a function that can process a response after it's received.
// Returning an error turns the call into a KindOther failure.
type ResponseHook func(*Response) error

// Observer is told about every call Do makes, including the ones that never
// got a response.
type Observer interface {
	Started(method string)
	Finished(method string, kind Kind, statusCode int, elapsed time.Duration)
}

// ClientOption configures the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying http.Client (transport, cookie jar).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets a logger for the client.
func WithLogger(l logger.LogManager) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestHook adds a hook that runs before each request.
func WithRequestHook(hook RequestHook) ClientOption {
	return func(c *Client) {
		c.requestHooks = append(c.requestHooks, hook)
	}
}

// WithResponseHook adds a hook that runs after each response.
func WithResponseHook(hook ResponseHook) ClientOption {
	return func(c *Client) {
		c.responseHooks = append(c.responseHooks, hook)
	}
}

// WithObserver registers an Observer, e.g. a metrics collector.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// NewClient creates a transport from cfg. It performs no I/O.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var rc *resty.Client
	if c.httpClient != nil {
		rc = resty.NewWithClient(c.httpClient)
	} else {
		rc = resty.New()
	}

	rc.SetLogger(restyLogger{c.logger}).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetAllowGetMethodPayload(true).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeaders(cfg.Headers)

	if cfg.Username != "" || cfg.Password != "" {
		rc.SetBasicAuth(cfg.Username, cfg.Password)
	}
	if cfg.InsecureSkipVerify {
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in for test servers
	}

	rc.OnBeforeRequest(c.applyRequestHooks)
	rc.OnAfterResponse(c.mapResponse)

	c.resty = rc
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Do sends req. See Doer for the result contract.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	start := time.Now()
	for _, o := range c.observers {
		o.Started(method)
	}

	resp, err := c.do(ctx, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	for _, o := range c.observers {
		o.Finished(method, KindOf(err), status, time.Since(start))
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.failure(req, KindOther, nil, fmt.Errorf("rate limit: %w", err))
		}
	}

	if c.breaker == nil {
		return c.execute(ctx, req)
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.execute(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, c.failure(req, KindOther, nil, fmt.Errorf("circuit breaker: %w", err))
	}
	return resp, err
}

// execute sends a single request through resty.
func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	slot := &responseSlot{}
	r := c.resty.R().SetContext(context.WithValue(ctx, slotKey{}, slot))

	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.JSON != nil {
		body, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, c.failure(req, KindOther, nil, fmt.Errorf("encode json body: %w", err))
		}
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	rr, err := r.Execute(strings.ToUpper(req.Method), req.Path)
	resp := slot.response
	if resp == nil && rr != nil && rr.RawResponse != nil && err == nil {
		resp = wrapResponse(rr)
	}

	if err != nil {
		if resp != nil {
			// a hook rejected a response that did arrive
			return resp, c.failure(req, KindOther, resp, err)
		}
		kind := classifyFailure(ctx, err)
		if kind == KindConnect {
			c.logger.WarnFCtx(ctx, "%s %s: connect failed: %v", strings.ToUpper(req.Method), c.url(req), err)
		}
		return nil, c.failure(req, kind, nil, err)
	}

	if kind := statusKind(resp.StatusCode); kind != KindOK {
		return resp, c.failure(req, kind, resp, nil)
	}
	return resp, nil
}

func (c *Client) failure(req Request, kind Kind, resp *Response, err error) *TransportError {
	te := &TransportError{
		Kind:     kind,
		Method:   strings.ToUpper(req.Method),
		URL:      c.url(req),
		Response: resp,
		Err:      err,
	}
	if resp != nil && resp.URL != "" {
		te.URL = resp.URL
	}
	return te
}

func (c *Client) url(req Request) string {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		return req.Path
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
}

// applyRequestHooks applies all request hooks.
func (c *Client) applyRequestHooks(_ *resty.Client, r *resty.Request) error {
	for _, hook := range c.requestHooks {
		if err := hook(r); err != nil {
			return fmt.Errorf("request hook failed: %w", err)
		}
	}
	return nil
}

type slotKey struct{}

// responseSlot carries the mapped response from the middleware back to execute.
type responseSlot struct {
	response *Response
}

// mapResponse is the response-mapping middleware.
func (c *Client) mapResponse(_ *resty.Client, rr *resty.Response) error {
	resp := wrapResponse(rr)
	ctx := rr.Request.Context()
	if slot, ok := ctx.Value(slotKey{}).(*responseSlot); ok {
		slot.response = resp
	}

	if resp.IsError() {
		c.logger.DebugFCtx(ctx, "%s %s -> %d (%s): %s", resp.Method, resp.URL, resp.StatusCode, resp.Duration,
			utils.Truncate(string(resp.Body), maxLoggedBody, true))
	} else {
		c.logger.DebugFCtx(ctx, "%s %s -> %d (%s)", resp.Method, resp.URL, resp.StatusCode, resp.Duration)
	}

	for _, hook := range c.responseHooks {
		if err := hook(resp); err != nil {
			return fmt.Errorf("response hook failed: %w", err)
		}
	}
	return nil
}

func wrapResponse(rr *resty.Response) *Response {
	resp := NewResponse(rr.StatusCode(), rr.Header(), rr.Body())
	resp.Method = rr.Request.Method
	resp.URL = rr.Request.URL
	resp.Duration = rr.Time()
	if at := rr.ReceivedAt(); !at.IsZero() {
		resp.ReceivedAt = at
	}
	return resp
}

// restyLogger routes resty's own warnings into the LogManager.
type restyLogger struct {
	l logger.LogManager
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.ErrorF("resty: "+format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.WarnF("resty: "+format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.DebugF("resty: "+format, v...) }
