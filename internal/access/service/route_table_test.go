package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/rolegate/internal/access/domain"
)

func TestRouteTable_Lookup(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.Routes = []domain.Route{
		{Path: "/cashier/payment", RequiredRole: domain.RoleCashier, RedirectOnDeny: "/cashier-login"},
		{Path: "/cashier/*", RequiredRole: domain.RoleCashier},
		{Path: "/finance/*", RequiredRole: domain.RoleFinanceApprover},
	}
	table := NewRouteTable(policy)

	t.Run("Success_FirstMatchWins", func(t *testing.T) {
		route := table.Lookup("/cashier/payment")
		assert.Equal(t, "/cashier-login", route.RedirectOnDeny)
	})

	t.Run("Success_WildcardEntry", func(t *testing.T) {
		route := table.Lookup("/finance/approvals/7")
		assert.Equal(t, domain.RoleFinanceApprover, route.RequiredRole)
	})

	t.Run("Success_UnknownPathIsUnprotected", func(t *testing.T) {
		route := table.Lookup("/dashboard")
		assert.False(t, route.IsProtected())
		assert.Equal(t, "/dashboard", route.Path)
	})
}
