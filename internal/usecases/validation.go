package usecases

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator for the entity structs
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateStruct checks s against its validate tags. Failures are returned as
// ErrInvalidInput carrying a readable list of fields.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidInput, FormatValidationError(err))
}

// FormatValidationError turns validator errors into "field: message" pairs.
// Internal struct names never leak into the message.
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid value"
	}

	var msgs []string
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte", "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, orField(e)))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func orField(e validator.FieldError) string {
	if e.Tag() == "gtefield" {
		return strings.ToLower(e.Param())
	}
	return e.Param()
}
