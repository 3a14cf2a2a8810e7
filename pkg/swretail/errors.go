package swretail

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/milan604/swretail-go/pkg/apperr"
	"github.com/milan604/swretail-go/pkg/http"
)

// Sentinels for errors.Is. An *APIError matches the sentinel with the same
// error code.
var (
	ErrConnection = &APIError{Code: apperr.ErrorCodeConnection, Message: apperr.ErrorCodeConnection.Message()}
	ErrAPI        = &APIError{Code: apperr.ErrorCodeAPI, Message: apperr.ErrorCodeAPI.Message()}
	ErrStatus     = &APIError{Code: apperr.ErrorCodeStatus, Message: apperr.ErrorCodeStatus.Message()}
)

// APIError is the single error type RequestAPI produces itself: a connection
// fault, or a response whose body reports an application error.
type APIError struct {
	Code    *apperr.ErrorCode
	Message string
	// ErrorCode is the body's errorcode member, formatted as a string.
	ErrorCode string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Response is the response that triggered the error, if any.
	Response *http.Response

	cause error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("swretail: %s: %v", e.Message, e.cause)
	}
	return "swretail: " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Is matches any *APIError carrying the same error code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok || t.Code == nil || e.Code == nil {
		return false
	}
	return t.Code.Code() == e.Code.Code()
}

// newConnectionError wraps a transport failure that never got a response.
func newConnectionError(cause error) *APIError {
	return &APIError{
		Code:    apperr.ErrorCodeConnection,
		Message: apperr.ErrorCodeConnection.Message(),
		cause:   cause,
	}
}

// newStatusError builds the error for a body with status "error".
func newStatusError(resp *http.Response) *APIError {
	return &APIError{
		Code:       apperr.ErrorCodeStatus,
		Message:    "Status Error: " + resp.String("extended"),
		StatusCode: resp.StatusCode,
		Response:   resp,
	}
}

// APIErrorFromResponse builds the error for a body carrying an errorcode.
// The message is taken from the first non-empty of message, error and
// extended, falling back to "API error <code>".
func APIErrorFromResponse(resp *http.Response) *APIError {
	e := &APIError{Code: apperr.ErrorCodeAPI, Response: resp}
	if resp == nil {
		e.Message = apperr.ErrorCodeAPI.Message()
		return e
	}
	e.StatusCode = resp.StatusCode
	e.ErrorCode = resp.String("errorcode")
	for _, field := range []string{"message", "error", "extended"} {
		if v, ok := resp.Field(field); ok && !isEmpty(v) {
			e.Message = resp.String(field)
			return e
		}
	}
	e.Message = "API error " + e.ErrorCode
	return e
}

// AsAPIError is errors.As for *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	ok := errors.As(err, &e)
	return e, ok
}

// isEmpty reports whether a decoded JSON value counts as absent: nil, false,
// zero numbers, "" and "0", and empty arrays or objects.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0"
	case bool:
		return !t
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		return err == nil && f == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}
