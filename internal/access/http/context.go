// Package http exposes the access engine over HTTP: session lifecycle, visibility,
// chrome suppression and route guard decisions.
package http

import (
	"context"

	"github.com/allisson/rolegate/internal/access/domain"
)

// sessionKey is a context key type for storing the resolved session.
type sessionKey struct{}

// WithSession stores the session addressed by the request in the context.
// This is called by SessionMiddleware once the session id has been resolved.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the session from the context.
// Returns (session, true) if present, or (nil, false) if no session was set.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return session, ok
}
