package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/rolegate/internal/access/domain"
)

func TestHeaderSuppressionResolver_Suppress(t *testing.T) {
	resolver := NewHeaderSuppressionResolver(domain.DefaultPolicy())

	tests := []struct {
		name     string
		path     string
		roles    domain.RoleSet
		expected bool
	}{
		{"Success_FocusedRouteAnonymous", "/medical-requests/new", domain.NewRoleSet(), true},
		{"Success_FocusedRouteClinicalRole", "/medical-requests/new", domain.NewRoleSet("doctor"), true},
		{"Success_FocusedRouteClinicalAmongOthers", "/cashier/payment", domain.NewRoleSet("supervisor", "nurse"), true},
		{"Failure_FocusedRouteNonClinicalRole", "/medical-requests/new", domain.NewRoleSet("supervisor"), false},
		{"Failure_FocusedRouteCashier", "/cashier/payment", domain.NewRoleSet("cashier"), false},
		{"Failure_OtherRouteAnonymous", "/dashboard", domain.NewRoleSet(), false},
		{"Failure_OtherRouteClinicalRole", "/dashboard", domain.NewRoleSet("doctor"), false},
		{"Failure_EmptyPath", "", domain.NewRoleSet(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Suppress(tt.path, tt.roles))
		})
	}
}

func TestHeaderSuppressionResolver_Exhaustive(t *testing.T) {
	policy := domain.DefaultPolicy()
	resolver := NewHeaderSuppressionResolver(policy)
	clinical := policy.ClinicalRoleSet()

	paths := []string{"/medical-requests/new", "/cashier/payment", "/dashboard", "/finance/approvals"}
	roleSets := []domain.RoleSet{
		domain.NewRoleSet(),
		domain.NewRoleSet("doctor"),
		domain.NewRoleSet("nurse", "cashier"),
		domain.NewRoleSet("supervisor"),
		domain.NewRoleSet("finance-approver"),
		domain.NewRoleSet("unknown"),
	}

	for _, path := range paths {
		for _, roles := range roleSets {
			focused := policy.IsFocusedRoute(path)
			want := focused && (roles.IsEmpty() || roles.Intersects(clinical))
			assert.Equal(t, want, resolver.Suppress(path, roles), "path=%s roles=%v", path, roles.Strings())
		}
	}
}

func TestHeaderSuppressionResolver_AnonymousDefaultIsSeparate(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.SuppressChromeForAnonymous = false
	resolver := NewHeaderSuppressionResolver(policy)

	assert.False(t, resolver.Suppress("/medical-requests/new", domain.NewRoleSet()))
	assert.True(t, resolver.Suppress("/medical-requests/new", domain.NewRoleSet("doctor")))
}
