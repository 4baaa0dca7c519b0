package roi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputs is wrapped by every ValidationError.
	ErrInvalidInputs = errors.New("invalid deal inputs")

	// ErrInvalidConfig is returned when engine configuration is out of range.
	ErrInvalidConfig = errors.New("invalid engine config")
)

// ValidationError names the input constraint that failed.
type ValidationError struct {
	Field   string // JSON path of the offending field, e.g. "intents[2].containment_m3"
	Message string // human-readable, safe to show to end users
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInputs).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInputs
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
