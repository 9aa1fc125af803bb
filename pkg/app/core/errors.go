package core

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("order not found")
	ErrNotCancellable = errors.New("order not cancellable")
	ErrDuplicateID    = errors.New("duplicate order id")
)

// ValidationError reports malformed input. It is always returned before
// any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotCancellableError carries the status that blocked the cancellation
// so callers can explain it.
type NotCancellableError struct {
	ID     string
	Status Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order %s is %s: only open or partial orders can be cancelled", e.ID, e.Status)
}

func (e *NotCancellableError) Is(target error) bool { return target == ErrNotCancellable }

// DuplicateIDError means ID generation collided with an existing order.
// This is a programming error, not something a caller can fix.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("order id %s already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }
