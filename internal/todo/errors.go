package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no Todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports a request field that violates a constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
