package domain

import (
	"slices"
	"time"
)

// Built-in role identifiers used by DefaultPolicy. Deployments whose backend issues
// different identifiers override them through the policy file.
const (
	RoleFinanceApprover   RoleID = "finance-approver"
	RoleCashier           RoleID = "cashier"
	RoleDoctor            RoleID = "doctor"
	RoleSupervisor        RoleID = "supervisor"
	RoleInventoryExtended RoleID = "inventory-extended"
	RolePharmacist        RoleID = "pharmacist"
	RoleNurse             RoleID = "nurse"
	RoleLaboratory        RoleID = "laboratory"
	RoleClinicAdmin       RoleID = "clinic-admin"
)

const (
	// DefaultGuardTimeout bounds how long a route guard waits for a non-empty role set.
	DefaultGuardTimeout = 10 * time.Second

	// DefaultAccessDeniedRoute is where denied navigation is redirected.
	DefaultAccessDeniedRoute = "/access-denied"
)

// Policy is the static configuration the engine derives every decision from.
// It is loaded once at startup and treated as constant afterwards.
type Policy struct {
	// FinanceRole and CashierRole trigger the exclusive finance/cashier menu.
	FinanceRole RoleID
	CashierRole RoleID

	// PublicFlags is the menu for an empty role set (unauthenticated or fail-closed).
	PublicFlags []Flag

	// ClinicBaseline is the menu every authenticated clinic user starts from.
	ClinicBaseline []Flag

	// FinanceFlags and CashierFlags are the only flags shown to finance/cashier roles.
	FinanceFlags []Flag
	CashierFlags []Flag

	// Unlocks maps a role to the flags it switches on for clinic users.
	Unlocks map[RoleID][]Flag

	// FocusedRoutes are rendered without standard chrome for qualifying sessions.
	FocusedRoutes []string

	// ClinicalRoles is the subset of roles for which focused routes hide chrome.
	ClinicalRoles []RoleID

	// SuppressChromeForAnonymous hides chrome on focused routes for an empty role set.
	// It is independent of PublicFlags.
	SuppressChromeForAnonymous bool

	// Routes is the ordered route table; the first matching entry wins.
	Routes []Route

	// GuardTimeout bounds the wait for a qualifying role snapshot.
	GuardTimeout time.Duration

	// AccessDeniedRoute is used when a route has no explicit redirect target.
	AccessDeniedRoute string
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	return &Policy{
		FinanceRole:    RoleFinanceApprover,
		CashierRole:    RoleCashier,
		PublicFlags:    []Flag{FlagMedicalRequests},
		ClinicBaseline: []Flag{FlagSidebar, FlagMedicalRequests},
		FinanceFlags:   []Flag{FlagFinanceApproval, FlagSidebar},
		CashierFlags:   []Flag{FlagCashierPayment, FlagSidebar},
		Unlocks: map[RoleID][]Flag{
			RoleDoctor:     {FlagDoctorRegistration, FlagInventoryRequest},
			RoleSupervisor: {FlagSupervisor, FlagClinicController},
			RoleInventoryExtended: {
				FlagInventory,
				FlagInventoryReports,
				FlagInventoryAdjustments,
				FlagInventoryTransfers,
			},
			RolePharmacist:  {FlagPharmacy, FlagInventoryRequest},
			RoleNurse:       {FlagNursing, FlagPatientRegistry},
			RoleLaboratory:  {FlagLaboratory},
			RoleClinicAdmin: {FlagDashboard, FlagReports, FlagPatientRegistry},
		},
		FocusedRoutes:              []string{"/medical-requests/new", "/cashier/payment"},
		ClinicalRoles:              []RoleID{RoleDoctor, RoleNurse, RolePharmacist},
		SuppressChromeForAnonymous: true,
		Routes: []Route{
			{Path: "/cashier/*", RequiredRole: RoleCashier},
			{Path: "/finance/*", RequiredRole: RoleFinanceApprover},
			{Path: "/supervisor/*", RequiredRole: RoleSupervisor},
		},
		GuardTimeout:      DefaultGuardTimeout,
		AccessDeniedRoute: DefaultAccessDeniedRoute,
	}
}

// IsExclusiveRole reports whether id triggers the finance/cashier-only menu.
func (p *Policy) IsExclusiveRole(id RoleID) bool {
	return id != "" && (id == p.FinanceRole || id == p.CashierRole)
}

// ClinicalRoleSet returns the clinical subset as a RoleSet.
func (p *Policy) ClinicalRoleSet() RoleSet {
	return RoleSetOf(p.ClinicalRoles...)
}

// IsFocusedRoute reports whether path is one of the focused routes.
func (p *Policy) IsFocusedRoute(path string) bool {
	return slices.ContainsFunc(p.FocusedRoutes, func(pattern string) bool {
		return MatchPath(pattern, path)
	})
}

// RedirectFor returns the redirect target for a denied route.
func (p *Policy) RedirectFor(route Route) string {
	if route.RedirectOnDeny != "" {
		return route.RedirectOnDeny
	}
	if p.AccessDeniedRoute != "" {
		return p.AccessDeniedRoute
	}
	return DefaultAccessDeniedRoute
}
