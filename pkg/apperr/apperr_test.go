package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := New(ErrorCodeConnection)
	assert.Equal(t, "connection_failed", a.Code)
	assert.Equal(t, ErrorCodeConnection.Message(), a.Message)
	assert.Same(t, ErrorCodeConnection, a.ErrorCode())

	assert.Equal(t, ErrorCodeInternal.Code(), New(nil).Code)
}

func TestAppError_Error(t *testing.T) {
	a := Newf(ErrorCodeValidationFail, "settings invalid")
	assert.Equal(t, "settings invalid", a.Error())

	a.AddSuggestion("endpoint", "endpoint is required").AddSuggestion("timeout", "timeout must be positive")
	assert.Equal(t, "settings invalid: endpoint is required; timeout must be positive", a.Error())

	var nilErr *AppError
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.False(t, nilErr.HasErrors())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	orig := New(ErrorCodeInvalidConfig)
	assert.Same(t, orig, FromError(orig))

	cause := errors.New("boom")
	wrapped := FromError(cause)
	assert.Equal(t, ErrorCodeInternal.Code(), wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "boom", wrapped.Error())
}
