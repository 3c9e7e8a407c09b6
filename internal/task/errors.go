package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidationFailed is returned by Add when a required field is missing
var ErrValidationFailed = errors.New("validation failed")

// ValidationError names the required fields that were left blank
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrValidationFailed, strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrValidationFailed so callers can use errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
