package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// Kind tags the outcome of a transport call.
type Kind int

const (
	// KindOK is a response with a status below 400.
	KindOK Kind = iota
	// KindClient is a 4xx response.
	KindClient
	// KindServer is a 5xx response.
	KindServer
	// KindConnect means no response was received: DNS, TCP connect, TLS
	// handshake, a connection dropped before the status line, or the
	// transport timeout.
	KindConnect
	// KindOther covers every other failure: bad request input, cancellation,
	// rate limiting, an open circuit breaker, a failing hook.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindClient:
		return "client_error"
	case KindServer:
		return "server_error"
	case KindConnect:
		return "connect_error"
	case KindOther:
		return "other_error"
	default:
		return "unknown"
	}
}

// TransportError is returned by Client.Do for every non-OK outcome.
// Response is set for KindClient and KindServer, and for KindOther when a
// response hook rejected a received response.
type TransportError struct {
	Kind     Kind
	Method   string
	URL      string
	Response *Response
	Err      error
}

func (e *TransportError) Error() string {
	target := e.Method + " " + e.URL
	switch {
	case e.Response != nil && e.Err == nil:
		return fmt.Sprintf("http: %s: %s: HTTP %d", e.Kind, target, e.Response.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("http: %s: %s: %v", e.Kind, target, e.Err)
	default:
		return fmt.Sprintf("http: %s: %s", e.Kind, target)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err. nil is KindOK and errors that did
// not come from the transport are KindOther.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindOther
}

// ResponseOf returns the response attached to a transport error, if any.
func ResponseOf(err error) *Response {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Response
	}
	return nil
}

func statusKind(code int) Kind {
	switch {
	case code >= 500:
		return KindServer
	case code >= 400:
		return KindClient
	default:
		return KindOK
	}
}

// classifyFailure decides between KindConnect and KindOther for a request
// that produced no response. Cancellation or expiry of the caller's context
// is KindOther; the transport's own timeout is KindConnect.
func classifyFailure(ctx context.Context, err error) Kind {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return KindOther
	}
	if isConnectError(err) {
		return KindConnect
	}
	return KindOther
}

func isConnectError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "remote error") {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// connection dropped before a status line arrived
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return isTLSError(err)
}

func isTLSError(err error) bool {
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}
