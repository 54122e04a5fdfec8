// Package usecase orchestrates the access engine: session lifecycle around the role
// store, route guards and the visibility feed.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
)

// RoleSource fetches the raw role identifiers granted to an identity. It is the
// collaborator that talks to the authentication backend; any retrying happens inside it.
type RoleSource interface {
	// FetchRoles returns the identity's roles. Any error is treated by callers as
	// "no roles".
	FetchRoles(ctx context.Context, identity string) ([]string, error)
}

// SessionUseCase owns the per-session role stores.
type SessionUseCase interface {
	// Open creates a session for identity and loads its roles. A failing role source
	// does not fail Open: the session starts with the empty role set.
	Open(ctx context.Context, identity string) (*domain.Session, error)

	// Get returns the session. Returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)

	// Store returns the session's role store. Returns ErrSessionNotFound for unknown ids.
	Store(ctx context.Context, sessionID uuid.UUID) (*store.Store, error)

	// Refresh re-fetches the roles and replaces the store wholesale, failing closed.
	// Returns the role set now current.
	Refresh(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error)

	// Close empties and tears down the session's store, releasing every subscription.
	Close(ctx context.Context, sessionID uuid.UUID) error

	// List returns the open sessions ordered by id, which is creation order.
	List(ctx context.Context) []*domain.Session

	// Count returns the number of open sessions.
	Count() int

	// Shutdown closes every open session.
	Shutdown(ctx context.Context)
}

// AccessUseCase answers the questions asked about a session: what it can see, whether
// chrome is hidden and whether it may enter a route.
type AccessUseCase interface {
	Roles(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error)

	Visibility(ctx context.Context, sessionID uuid.UUID) (domain.FlagBag, error)

	// Chrome reports whether the standard chrome is suppressed on path.
	Chrome(ctx context.Context, sessionID uuid.UUID, path string) (bool, error)

	// Navigate runs the route guard for path. It blocks until a decision is reached or
	// ctx ends; in the latter case no decision is produced and ctx.Err() is returned.
	Navigate(ctx context.Context, sessionID uuid.UUID, path string) (domain.Decision, error)

	// WatchVisibility streams one flag bag per role snapshot, starting with the current one.
	// The caller must Close the feed.
	WatchVisibility(ctx context.Context, sessionID uuid.UUID) (*VisibilityFeed, error)
}
