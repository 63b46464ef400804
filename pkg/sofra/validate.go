package sofra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all services; the validator is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a client-side pre-request failure. It is checked
// synchronously and surfaced before any network call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// UserMessage returns a short display string naming the invalid fields.
func (e *ValidationError) UserMessage() string {
	return "Please check the following fields: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// checkStruct validates a request payload and converts validator output
// into a *ValidationError.
func checkStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	fields := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		fields = append(fields, fieldErr.Field())
	}
	return &ValidationError{Fields: fields}
}
