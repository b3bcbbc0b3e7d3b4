// Package validation validates API request payloads with go-playground/validator and translates
// failures into the VALIDATION_ERROR response format.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

// Code is the API error code of validation failures.
const Code = "VALIDATION_ERROR"

//nolint:gochecknoglobals // the validator caches struct metadata and must be shared.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects the failed rules of one payload.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// APIError is the response body of a rejected payload.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ToAPIError converts e into the response body.
func (e *Error) ToAPIError() APIError {
	return APIError{
		Code:    Code,
		Message: e.Error(),
		Fields:  e.Fields,
	}
}

// Validator returns the shared validator. Field names in errors are taken from json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("cycle_phase", func(fl validator.FieldLevel) bool {
			_, ok := cycle.Parse(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return catalog.Category(fl.Field().String()).Known()
		})
	})
	return validate
}

// ValidateStruct validates s and returns nil or an *Error.
func ValidateStruct(s any) *Error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &Error{Fields: []FieldError{{Field: "", Tag: "", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
		}
	}
	return &Error{Fields: fields}
}

//nolint:gochecknoglobals // constant message table.
var messages = map[string]string{
	"required":    "%s is required",
	"email":       "%s must be a valid email address",
	"cycle_phase": "%s must be one of menstrual, follicular, ovulation or luteal",
	"category":    "%s must be one of strength, cardio, flexibility or recovery",
	"datetime":    "%s must be a date formatted as YYYY-MM-DD",
	"uuid":        "%s must be a UUID",
}

//nolint:gochecknoglobals // constant message table.
var messagesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if template, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
