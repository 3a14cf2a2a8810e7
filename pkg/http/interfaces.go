package http

import (
	"context"
	"net/url"
)

// Request is one API call. Path is resolved against Config.BaseURL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	JSON    any
	Headers map[string]string
}

// Doer sends a Request. A nil error means a status below 400; otherwise the
// error is a *TransportError whose Kind tags the outcome.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Ensure Client implements Doer.
var _ Doer = (*Client)(nil)
