package domain

import (
	"github.com/allisson/rolegate/internal/errors"
)

// Access errors.
var (
	// ErrSessionNotFound indicates a session with the specified ID was not found.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrStoreClosed indicates the role store was torn down.
	ErrStoreClosed = errors.Wrap(errors.ErrConflict, "role store closed")

	// ErrRoleSourceUnavailable indicates the role data source failed or returned garbage.
	ErrRoleSourceUnavailable = errors.Wrap(errors.ErrUnavailable, "role source unavailable")

	// ErrInvalidPolicy indicates a policy document failed validation.
	ErrInvalidPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid access policy")

	// ErrIdentityNotFound indicates the role source has no record of the identity.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")
)
