package validator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validators
	v.RegisterValidation("notblank", validateNotBlank)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, err := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   err.Field(),
			Message: msgForTag(err),
			Tag:     err.Tag(),
			Value:   valueString(err.Value()),
		})
	}

	return validationErrs
}

// ParseCode parses an item code path parameter.
func ParseCode(field, raw string) (int64, error) {
	code, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("%s must be an integer", field),
			Tag:     "int",
			Value:   raw,
		}}
	}
	return code, nil
}

// ParsePrice parses a price path parameter. NaN and infinities are rejected.
func ParsePrice(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("%s must be a finite number", field),
			Tag:     "number",
			Value:   raw,
		}}
	}
	return value, nil
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func valueString(v interface{}) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		return fmt.Sprintf("%v", rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", v)
}

// Custom validators

// validateNotBlank rejects strings made only of whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}
