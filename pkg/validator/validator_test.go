package validator

import (
	"errors"
	"testing"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milan604/swretail-go/pkg/apperr"
)

type target struct {
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	Retries  int    `json:"retries" validate:"gte=0"`
	Name     string `validate:"oneof=a b"`
}

func TestStruct(t *testing.T) {
	vi := New()

	assert.Nil(t, vi.Struct(target{Endpoint: "https://api.example.com", Name: "a"}))

	appErr := vi.Struct(target{Retries: -1, Name: "c"})
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.ErrorCodeValidationFail.Code(), appErr.Code)
	require.Len(t, appErr.Suggestions, 3)
	assert.Equal(t, apperr.Suggestion{Field: "endpoint", Message: "endpoint is required"}, appErr.Suggestions[0])
	assert.Equal(t, "retries must be at least 0", appErr.Suggestions[1].Message)
	assert.Equal(t, "Name", appErr.Suggestions[2].Field)
	assert.Contains(t, appErr.Suggestions[2].Message, "oneof")
}

func TestStructBadURL(t *testing.T) {
	appErr := Default().Struct(target{Endpoint: "not a url", Name: "b"})
	require.NotNil(t, appErr)
	require.Len(t, appErr.Suggestions, 1)
	assert.Equal(t, "endpoint must be an absolute URL", appErr.Suggestions[0].Message)
}

func TestCustomValidation(t *testing.T) {
	vi := New()
	require.NoError(t, vi.RegisterValidation("even", func(fl gvalidator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))
	vi.RegisterTagError("even", func(fe gvalidator.FieldError) string { return fe.Field() + " must be even" })

	type payload struct {
		N int `json:"n" validate:"even"`
	}
	appErr := vi.Struct(payload{N: 3})
	require.NotNil(t, appErr)
	assert.Equal(t, "n must be even", appErr.Suggestions[0].Message)
}

func TestParseError(t *testing.T) {
	vi := New()
	assert.Nil(t, vi.ParseError(nil))

	appErr := vi.ParseError(errors.New("odd"))
	assert.Equal(t, "invalid input: odd", appErr.Message)

	appErr = vi.Struct(42)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.ErrorCodeInternal.Code(), appErr.Code)
}
