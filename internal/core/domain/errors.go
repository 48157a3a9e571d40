package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrConstraintViolation = errors.New("constraint violation")
)

// Entity names a record type. Values match the form and column vocabulary.
type Entity string

const (
	EntityProduct Entity = "producto"
	EntitySeller  Entity = "vendedor"
	EntitySale    Entity = "venta"
)

// NotFoundError reports that no record of Entity has the given ID.
type NotFoundError struct {
	Entity Entity
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports the first input field that could not be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConstraintError reports a referential integrity failure on a record.
type ConstraintError struct {
	Entity Entity
	ID     uint
	Reason string
	Err    error
}

func (e *ConstraintError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }

func (e *ConstraintError) Unwrap() error { return e.Err }
