package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps a struct field name to the message shown when it fails validation.
// "Field[]" keys cover errors on the elements of a slice field.
type fieldMessages map[string]string

func (m fieldMessages) lookup(field string) (string, bool) {
	if i := strings.IndexByte(field, '['); i >= 0 {
		if msg, ok := m[field[:i]+"[]"]; ok {
			return msg, true
		}
		field = field[:i]
	}
	msg, ok := m[field]
	return msg, ok
}

// check validates in and turns the first failing field into a ValidationError.
func check(in any, messages fieldMessages) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var invalidValidationError *validator.InvalidValidationError
	if errors.As(err, &invalidValidationError) {
		return fmt.Errorf("validate input: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if msg, ok := messages.lookup(fe.StructField()); ok {
			return invalid(msg)
		}
		return invalid(fmt.Sprintf("%s is invalid", fe.Field()))
	}

	return invalid("invalid input")
}
