package store

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError
var ErrValidation = errors.New("validation rejected")

// ValidationError reports a mutation whose required fields were missing.
// Callers treat it as "skip": nothing is committed.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func required(entity, field string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: "is required"}
}

func invalid(entity, field string, value any) error {
	return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf("has invalid value %q", fmt.Sprint(value))}
}
