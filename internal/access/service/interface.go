// Package service provides the pure derivations of the access engine: the visibility
// menu, header suppression and route table lookup. None of them block or fail.
package service

import (
	"github.com/allisson/rolegate/internal/access/domain"
)

// VisibilityResolver maps a role set to the navigation flags it may see.
type VisibilityResolver interface {
	// Resolve is total, idempotent and independent of role order. Unknown roles are ignored.
	Resolve(roles domain.RoleSet) domain.FlagBag
}

// HeaderSuppressionResolver decides whether page chrome is hidden for a route.
type HeaderSuppressionResolver interface {
	// Suppress reports whether the standard chrome is hidden on path for roles.
	Suppress(path string, roles domain.RoleSet) bool
}

// RouteTable finds the route entry governing a path.
type RouteTable interface {
	// Lookup returns the first route whose pattern matches path. Paths without an
	// entry resolve to an unprotected route with the same path.
	Lookup(path string) domain.Route
}
