// Package errors defines the error kinds shared by every module. Domain errors wrap one
// of these kinds, and internal/httputil turns the kind into a status code, so use cases
// never deal with HTTP.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict covers unique violations such as a taken username or email.
	ErrConflict = errors.New("conflict")

	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is deliberately coarse: bad credentials and unknown users share it.
	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden = errors.New("forbidden")

	// ErrTooManyRequests is used for local rate limits and for a throttled language model.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrUnavailable means a dependency (moderation, database) gave no answer.
	ErrUnavailable = errors.New("service unavailable")
)

// Wrap prefixes err with message and keeps it matchable with Is. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether target is anywhere in err's chain.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
