package service

import (
	"github.com/allisson/rolegate/internal/access/domain"
)

type routeTable struct {
	routes []domain.Route
}

// NewRouteTable returns a lookup over the policy's ordered route table.
func NewRouteTable(policy *domain.Policy) RouteTable {
	return &routeTable{routes: append([]domain.Route(nil), policy.Routes...)}
}

func (t *routeTable) Lookup(path string) domain.Route {
	for _, route := range t.routes {
		if route.Matches(path) {
			return route
		}
	}
	return domain.Route{Path: path}
}
