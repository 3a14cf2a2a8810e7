// Package apperr defines the error codes shared by the client packages and a
// small AppError shape used to report configuration and validation problems
// with per-field suggestions.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Suggestion is a per-field hint for fixing a validation error.
type Suggestion struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error returned when client setup input is rejected.
type AppError struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	cause       error
	ec          *ErrorCode
}

// New creates a new AppError from an ErrorCode.
func New(ec *ErrorCode) *AppError {
	if ec == nil {
		ec = ErrorCodeInternal
	}
	return &AppError{
		Code:    ec.Code(),
		Message: ec.Message(),
		ec:      ec,
	}
}

// Newf creates AppError with formatted message.
func Newf(ec *ErrorCode, format string, args ...interface{}) *AppError {
	a := New(ec)
	a.Message = fmt.Sprintf(format, args...)
	return a
}

// FromError wraps a generic error into AppError (internal fallback)
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	a := New(ErrorCodeInternal)
	a.cause = err
	return a
}

// AddSuggestion appends a field suggestion (fluent)
func (a *AppError) AddSuggestion(field, message string) *AppError {
	if a == nil {
		a = New(ErrorCodeInternal)
	}
	a.Suggestions = append(a.Suggestions, Suggestion{
		Field:   field,
		Message: message,
	})
	return a
}

func (a *AppError) Error() string {
	if a == nil {
		return "<nil>"
	}
	if a.cause != nil {
		return a.cause.Error()
	}
	if len(a.Suggestions) == 0 {
		return a.Message
	}
	parts := make([]string, 0, len(a.Suggestions))
	for _, s := range a.Suggestions {
		parts = append(parts, s.Message)
	}
	return a.Message + ": " + strings.Join(parts, "; ")
}

// ErrorCode returns the code the error was built from.
func (a *AppError) ErrorCode() *ErrorCode {
	if a == nil {
		return nil
	}
	return a.ec
}

// WithMessage overrides the message and returns the same AppError for chaining.
func (a *AppError) WithMessage(msg string) *AppError {
	if a == nil {
		return New(ErrorCodeInternal).WithMessage(msg)
	}
	a.Message = msg
	return a
}

// Wrap sets the underlying cause and returns the same AppError.
func (a *AppError) Wrap(err error) *AppError {
	if a == nil {
		a = New(ErrorCodeInternal)
	}
	a.cause = err
	return a
}

// Unwrap returns the underlying cause, allowing errors.Unwrap/Is/As to work.
func (a *AppError) Unwrap() error { return a.cause }

// HasErrors returns true if the AppError has a code, message, or suggestions
func (a *AppError) HasErrors() bool {
	if a == nil {
		return false
	}
	return a.Code != "" || a.Message != "" || len(a.Suggestions) > 0
}
