package apperr

import "net/http"

// Error codes raised by the client. HTTPStatus is the status the code most
// often travels with; zero means no response was involved.
var (
	ErrorCodeConnection     = NewErrorCode("connection_failed", "Could not connect to the API", 10, 0)
	ErrorCodeAPI            = NewErrorCode("api_error", "API returned an error", 20, 0)
	ErrorCodeStatus         = NewErrorCode("status_error", "API returned an error status", 30, 0)
	ErrorCodeInvalidConfig  = NewErrorCode("invalid_config", "Invalid client configuration", 40, 0)
	ErrorCodeValidationFail = NewErrorCode("validation_failed", "Validation failed", 50, http.StatusUnprocessableEntity)
	ErrorCodeInternal       = NewErrorCode("internal_error", "Internal error", 100, http.StatusInternalServerError)
)

// ErrorCode describes a canonical application error code.
// It carries a numeric severity/priority (Value) and an HTTP status.
type ErrorCode struct {
	code       string
	message    string
	value      int
	httpStatus int
}

func NewErrorCode(code, message string, value, httpStatus int) *ErrorCode {
	return &ErrorCode{code: code, message: message, value: value, httpStatus: httpStatus}
}

func (ec *ErrorCode) Code() string    { return ec.code }
func (ec *ErrorCode) Message() string { return ec.message }
func (ec *ErrorCode) Value() int      { return ec.value }
func (ec *ErrorCode) HTTPStatus() int { return ec.httpStatus }

// String returns the code string so an ErrorCode prints nicely in logs.
func (ec *ErrorCode) String() string {
	if ec == nil {
		return ""
	}
	return ec.code
}
