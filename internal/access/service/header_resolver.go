package service

import (
	"github.com/allisson/rolegate/internal/access/domain"
)

type headerSuppressionResolver struct {
	policy        *domain.Policy
	clinicalRoles domain.RoleSet
}

// NewHeaderSuppressionResolver builds a resolver over the policy's focused routes and
// clinical role subset.
func NewHeaderSuppressionResolver(policy *domain.Policy) HeaderSuppressionResolver {
	return &headerSuppressionResolver{
		policy:        policy,
		clinicalRoles: policy.ClinicalRoleSet(),
	}
}

// Suppress hides chrome exactly when path is a focused route and the session is either
// anonymous or holds a clinical role.
func (r *headerSuppressionResolver) Suppress(path string, roles domain.RoleSet) bool {
	if !r.policy.IsFocusedRoute(path) {
		return false
	}
	if roles.IsEmpty() {
		return r.policy.SuppressChromeForAnonymous
	}
	return roles.Intersects(r.clinicalRoles)
}
