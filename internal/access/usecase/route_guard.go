package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/metrics"
)

// RouteGuard decides whether a session may enter a route protected by one role.
// A guard is immutable and safe for concurrent use; every Check has its own subscription.
type RouteGuard struct {
	requiredRole domain.RoleID
	redirect     string
	timeout      time.Duration
	logger       *slog.Logger
	metrics      metrics.BusinessMetrics
}

// RouteGuardBuilder configures a RouteGuard.
//
//	guard := NewRouteGuardBuilder(domain.RoleCashier).
//		WithRedirect("/access-denied").
//		WithTimeout(10 * time.Second).
//		Build()
type RouteGuardBuilder struct {
	guard RouteGuard
}

// NewRouteGuardBuilder starts a guard for requiredRole with the default redirect target
// and timeout.
func NewRouteGuardBuilder(requiredRole domain.RoleID) *RouteGuardBuilder {
	return &RouteGuardBuilder{
		guard: RouteGuard{
			requiredRole: requiredRole,
			redirect:     domain.DefaultAccessDeniedRoute,
			timeout:      domain.DefaultGuardTimeout,
			logger:       slog.New(slog.DiscardHandler),
			metrics:      metrics.NewNoOpBusinessMetrics(),
		},
	}
}

// WithRedirect sets where denied navigation is sent. Empty values are ignored.
func (b *RouteGuardBuilder) WithRedirect(target string) *RouteGuardBuilder {
	if target != "" {
		b.guard.redirect = target
	}
	return b
}

// WithTimeout bounds the wait for a non-empty role snapshot. Non-positive values are ignored.
func (b *RouteGuardBuilder) WithTimeout(timeout time.Duration) *RouteGuardBuilder {
	if timeout > 0 {
		b.guard.timeout = timeout
	}
	return b
}

func (b *RouteGuardBuilder) WithLogger(logger *slog.Logger) *RouteGuardBuilder {
	if logger != nil {
		b.guard.logger = logger
	}
	return b
}

func (b *RouteGuardBuilder) WithMetrics(m metrics.BusinessMetrics) *RouteGuardBuilder {
	if m != nil {
		b.guard.metrics = m
	}
	return b
}

// Build returns the configured guard. The builder can keep being used afterwards.
func (b *RouteGuardBuilder) Build() *RouteGuard {
	g := b.guard
	return &g
}

// RequiredRole returns the role the guard admits.
func (g *RouteGuard) RequiredRole() domain.RoleID {
	return g.requiredRole
}

// Timeout returns how long Check waits for a non-empty snapshot.
func (g *RouteGuard) Timeout() time.Duration {
	return g.timeout
}

// Check subscribes to roles and waits for the first non-empty snapshot or the timeout,
// whichever comes first:
//   - snapshot holding the required role: Allow
//   - snapshot without it: Deny, without waiting for the timeout
//   - timeout: Deny
//   - store closed: Deny
//
// If ctx ends first, Check returns ctx.Err() and no decision. The subscription is
// released before Check returns in every case.
func (g *RouteGuard) Check(ctx context.Context, roles *store.Store) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return g.abandon(err)
	}

	sub, err := roles.Subscribe()
	if err != nil {
		if errors.Is(err, domain.ErrStoreClosed) {
			return g.resolve(ctx, domain.Deny(g.redirect, domain.ReasonStoreClosed), nil)
		}
		return domain.Decision{}, err
	}
	defer sub.Unsubscribe()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return g.abandon(ctx.Err())

		case <-timer.C:
			return g.resolve(ctx, domain.Deny(g.redirect, domain.ReasonTimeout), nil)

		case snapshot, ok := <-sub.C():
			if !ok {
				return g.resolve(ctx, domain.Deny(g.redirect, domain.ReasonStoreClosed), nil)
			}
			if snapshot.IsEmpty() {
				continue
			}
			if snapshot.Contains(g.requiredRole) {
				return g.resolve(ctx, domain.Allow(domain.ReasonRoleMatch), snapshot.Strings())
			}
			return g.resolve(ctx, domain.Deny(g.redirect, domain.ReasonRoleMismatch), snapshot.Strings())
		}
	}
}

// resolve delivers decision unless ctx ended first. select picks randomly among ready
// cases, so a snapshot or the timer can win against an already cancelled ctx.
func (g *RouteGuard) resolve(ctx context.Context, decision domain.Decision, roles []string) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return g.abandon(err)
	}
	return g.decide(ctx, decision, roles), nil
}

func (g *RouteGuard) abandon(err error) (domain.Decision, error) {
	g.logger.Debug("route guard abandoned",
		slog.String("required_role", g.requiredRole.String()),
	)
	return domain.Decision{}, err
}

func (g *RouteGuard) decide(ctx context.Context, decision domain.Decision, roles []string) domain.Decision {
	attrs := []any{
		slog.String("required_role", g.requiredRole.String()),
		slog.String("outcome", string(decision.Outcome)),
		slog.String("reason", string(decision.Reason)),
	}
	if decision.Redirect != "" {
		attrs = append(attrs, slog.String("redirect", decision.Redirect))
	}
	if roles != nil {
		attrs = append(attrs, slog.Any("roles", roles))
	}

	switch decision.Reason {
	case domain.ReasonTimeout:
		attrs = append(attrs, slog.Duration("timeout", g.timeout))
		g.logger.WarnContext(ctx, "route guard timed out waiting for roles", attrs...)
	case domain.ReasonRoleMismatch:
		g.logger.InfoContext(ctx, "route guard denied entry", attrs...)
	case domain.ReasonStoreClosed:
		g.logger.InfoContext(ctx, "route guard found role store closed", attrs...)
	default:
		g.logger.DebugContext(ctx, "route guard allowed entry", attrs...)
	}

	g.metrics.RecordDecision(ctx, string(decision.Outcome), string(decision.Reason))
	return decision
}
