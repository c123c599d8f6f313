package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is matched by every DuplicateIDError.
var ErrDuplicateID = errors.New("duplicate id")

// ValidationError reports invalid construction input. It is only returned
// by constructors; the allocator never produces one.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// DuplicateIDError is returned by the registry when an entity with the same
// id is already registered.
type DuplicateIDError struct {
	Entity string
	ID     string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s with id %s already exists", e.Entity, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
