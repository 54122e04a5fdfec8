// Package errors holds the sentinels every access error wraps. Sessions, role stores,
// role sources and policy loading wrap one of them, and httputil turns the sentinel
// into a status code.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels. Match them with Is; never compare wrapped errors directly.
var (
	// ErrNotFound marks an unknown session id or an identity the role source does not know.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation that lost a race with teardown, such as subscribing
	// to a closed role store.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks a request body or policy document that failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a request without a resolved session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an operation the session's roles do not permit.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable marks a role source that failed or answered garbage.
	ErrUnavailable = errors.New("unavailable")
)

// New returns a plain error. Prefer wrapping a sentinel when the caller needs a status.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping it matchable with Is. A nil err stays nil,
// so fetch and validation results can be wrapped unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message, e.g. the policy file path.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether err wraps target anywhere in its chain.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
