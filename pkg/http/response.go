package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is a completed HTTP exchange with its body decoded once.
//
// JSON holds the decoded body (map[string]any, []any or a scalar; numbers
// are json.Number). It is nil when the body is empty or not valid JSON;
// that is not an error at this layer.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	JSON       any
	ReceivedAt time.Time
	Duration   time.Duration
}

// NewResponse wraps a raw status, header set and body and parses the body.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	if header == nil {
		header = http.Header{}
	}
	r := &Response{
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
		ReceivedAt: time.Now(),
	}
	r.parseBody()
	return r
}

func (r *Response) parseBody() {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return
	}
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return
	}
	// trailing garbage makes the whole body malformed
	if _, err := dec.Token(); err != io.EOF {
		return
	}
	r.JSON = v
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r != nil && r.StatusCode >= 400
}

// Object returns the decoded body when it is a JSON object.
func (r *Response) Object() (map[string]any, bool) {
	if r == nil {
		return nil, false
	}
	obj, ok := r.JSON.(map[string]any)
	return obj, ok
}

// Field returns a top-level member of an object body.
func (r *Response) Field(name string) (any, bool) {
	obj, ok := r.Object()
	if !ok {
		return nil, false
	}
	v, ok := obj[name]
	return v, ok
}

// String returns a top-level member formatted as a string, or "" when the
// member is absent or null.
func (r *Response) String(name string) string {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Decode unmarshals the raw body into v. JSON is left untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("http: empty response body")
	}
	return json.Unmarshal(r.Body, v)
}
