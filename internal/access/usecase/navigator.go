package usecase

import (
	"context"
	"log/slog"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/service"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/metrics"
)

// Navigator resolves a path against the route table and runs the guard configured for
// the matching entry. There is one guard per protected route, built once.
type Navigator struct {
	routes service.RouteTable
	guards map[string]*RouteGuard
	logger *slog.Logger
}

// NewNavigator builds a guard for every protected route of the policy.
func NewNavigator(policy *domain.Policy, logger *slog.Logger, m metrics.BusinessMetrics) *Navigator {
	guards := make(map[string]*RouteGuard, len(policy.Routes))
	for _, route := range policy.Routes {
		if !route.IsProtected() {
			continue
		}
		if _, ok := guards[route.Path]; ok {
			continue
		}
		guards[route.Path] = NewRouteGuardBuilder(route.RequiredRole).
			WithRedirect(policy.RedirectFor(route)).
			WithTimeout(policy.GuardTimeout).
			WithLogger(logger.With(slog.String("route", route.Path))).
			WithMetrics(m).
			Build()
	}

	return &Navigator{
		routes: service.NewRouteTable(policy),
		guards: guards,
		logger: logger,
	}
}

// Navigate decides entry to path for the session backed by roles. Unprotected paths are
// allowed immediately without subscribing.
func (n *Navigator) Navigate(ctx context.Context, roles *store.Store, path string) (domain.Decision, error) {
	route := n.routes.Lookup(path)
	guard, ok := n.guards[route.Path]
	if !route.IsProtected() || !ok {
		return domain.Allow(domain.ReasonPublicRoute), nil
	}
	return guard.Check(ctx, roles)
}

// Guard returns the guard protecting path, if any.
func (n *Navigator) Guard(path string) (*RouteGuard, bool) {
	guard, ok := n.guards[n.routes.Lookup(path).Path]
	return guard, ok
}
