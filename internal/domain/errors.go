package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a malformed or empty request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrClassifierUnavailable signals that no verdict could be produced.
	// It is never interchangeable with a "genuine" verdict.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrNotImplemented signals an unimplemented feature or an unconfigured backend.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized signals a missing or unknown credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a credential without the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrStoreUnavailable signals a review store failure.
	ErrStoreUnavailable = errors.New("review store unavailable")
)

// WrapError preserves a semantic error kind with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// Unavailable marks err as a classifier availability failure.
func Unavailable(operation string, err error) error {
	if errors.Is(err, ErrClassifierUnavailable) {
		return err
	}
	return WrapError(ErrClassifierUnavailable, operation, err)
}
