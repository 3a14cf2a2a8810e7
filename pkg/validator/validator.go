package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	gvalidator "github.com/go-playground/validator/v10"

	"github.com/milan604/swretail-go/pkg/apperr"
)

// TagErrorBuilder describes how to convert a validator.FieldError into a message
type TagErrorBuilder struct {
	Builder func(fe gvalidator.FieldError) string
}

// Validator is the wrapper around go-playground validator with extra features.
type Validator struct {
	v                *gvalidator.Validate
	tagErrorBuilders map[string]TagErrorBuilder
}

// ValidatorEngine defines the interface for validation engines
type ValidatorEngine interface {
	Struct(s any) *apperr.AppError
	RegisterValidation(tag string, fn gvalidator.Func) error
	RegisterTagError(tag string, builder func(gvalidator.FieldError) string)
	ParseError(err error) *apperr.AppError
}

var (
	defaultOnce sync.Once
	defaultVal  *Validator
)

// Default returns a process-wide Validator. It is safe for concurrent use.
func Default() *Validator {
	defaultOnce.Do(func() { defaultVal = New() })
	return defaultVal
}

// New creates a Validator that reports fields by their mapstructure/json name.
func New() *Validator {
	v := gvalidator.New(gvalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "json"} {
			if name := getTagName(f, tag); name != "" {
				return name
			}
		}
		return f.Name
	})

	vi := &Validator{
		v:                v,
		tagErrorBuilders: make(map[string]TagErrorBuilder),
	}
	vi.RegisterTagError("required", func(fe gvalidator.FieldError) string {
		return fmt.Sprintf("%s is required", fe.Field())
	})
	vi.RegisterTagError("url", func(fe gvalidator.FieldError) string {
		return fmt.Sprintf("%s must be an absolute URL", fe.Field())
	})
	vi.RegisterTagError("gte", func(fe gvalidator.FieldError) string {
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	})
	return vi
}

// helper to get tag name
func getTagName(f reflect.StructField, tagName string) string {
	tagValue := f.Tag.Get(tagName)
	if tagValue == "-" {
		return ""
	}
	return strings.SplitN(tagValue, ",", 2)[0]
}

// Struct validates s and returns nil or an AppError carrying one suggestion
// per failed field.
func (vi *Validator) Struct(s any) *apperr.AppError {
	if err := vi.v.Struct(s); err != nil {
		return vi.ParseError(err)
	}
	return nil
}

// RegisterValidation registers a custom validator (name) to the engine.
func (vi *Validator) RegisterValidation(tag string, fn gvalidator.Func) error {
	return vi.v.RegisterValidation(tag, fn)
}

// RegisterTagError maps a tag to a message builder.
func (vi *Validator) RegisterTagError(tag string, builder func(gvalidator.FieldError) string) {
	vi.tagErrorBuilders[tag] = TagErrorBuilder{Builder: builder}
}

// ParseError converts a validator error into *apperr.AppError.
func (vi *Validator) ParseError(err error) *apperr.AppError {
	if err == nil {
		return nil
	}

	var verrs gvalidator.ValidationErrors
	if errors.As(err, &verrs) {
		appErr := apperr.New(apperr.ErrorCodeValidationFail)
		for _, fe := range verrs {
			appErr.AddSuggestion(fe.Field(), vi.buildMessageForField(fe))
		}
		return appErr
	}

	var invalid *gvalidator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperr.New(apperr.ErrorCodeInternal).Wrap(err)
	}

	return apperr.Newf(apperr.ErrorCodeValidationFail, "invalid input: %v", err)
}

// buildMessageForField uses registered tag builders or defaults
func (vi *Validator) buildMessageForField(fe gvalidator.FieldError) string {
	if b, ok := vi.tagErrorBuilders[fe.Tag()]; ok && b.Builder != nil {
		return b.Builder(fe)
	}
	if fe.Param() != "" {
		return fmt.Sprintf("field %s failed on '%s' validation (param=%s)", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s failed on '%s' validation", fe.Field(), fe.Tag())
}
