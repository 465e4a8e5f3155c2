package request

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the sentinel matched by every ValidationError.
	ErrValidation = errors.New("publish request validation error")
	// ErrInvalidOptions marks configuration problems detected before any
	// document is processed.
	ErrInvalidOptions = errors.New("publish request options invalid")
)

// ValidationError reports a document that cannot produce a valid request.
type ValidationError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
