/*
errors.go - Centralized error types for the bookkeeping domain

PURPOSE:
  All error types in one place. Gateways wrap store-level failures in
  PersistenceError; validation failures never reach a gateway.

ERROR CATEGORIES:
  1. Validation errors - Bad caller input, caught before any write
  2. Persistence errors - The store rejected or could not complete an op
  3. Not-found errors - Referenced record absent on update or lookup

POLICY:
  Nothing here is fatal. Every failure returns control to the caller.
  Display-name lookups that miss degrade to a sentinel string instead of
  surfacing an error (see resolver.go).
*/
package book

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the root of all validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced record does not exist.
	// Deletes are exempt: deleting a missing id is treated as success
	// (document-store idempotent-delete semantics).
	ErrNotFound = errors.New("record not found")

	// ErrPersistence is the root of store-level failures.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// PersistenceError wraps a store failure with the operation and logical
// collection path it hit.
type PersistenceError struct {
	Op   string // "create", "list", "update", "delete"
	Path string // logical collection path, e.g. "Customers/c1/Accounts"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError
// regardless of the wrapped cause.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether the error is due to invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
