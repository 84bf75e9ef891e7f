package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds shared by the whole backend. Handlers and services match
// on these with errors.Is, the wrapping constructors below attach the
// human-readable detail.
var (

	// auth errors
	ErrNotAuthenticated = errors.New("user not authenticated")

	// validation errors, detected before any store call
	ErrValidationFailed = errors.New("validation failed")
	ErrSelfReference    = errors.New("you cannot add yourself as a friend")

	// entity errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// store errors
	ErrStoreOperationFailed = errors.New("store operation failed")

	// draw-specific errors
	ErrEmptyCatalog = errors.New("no cards available")

	// a secondary mirrored write failed after the primary one was
	// already committed; never rolled back, always surfaced
	ErrPartialMirrorFailure = errors.New("partial mirror failure")
)

// Validation wraps ErrValidationFailed with a reason.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, reason)
}

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// AlreadyExists wraps ErrAlreadyExists naming the entity.
func AlreadyExists(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrAlreadyExists)
}

// Store wraps an underlying store error so callers can match the kind
// while the cause stays inspectable through errors.Unwrap.
func Store(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreOperationFailed, err)
}

// PartialMirror reports which side of a mirrored write failed.
func PartialMirror(side string, err error) error {
	return fmt.Errorf("%w (%s side): %v", ErrPartialMirrorFailure, side, err)
}
