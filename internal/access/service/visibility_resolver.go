package service

import (
	"github.com/allisson/rolegate/internal/access/domain"
)

// visibilityResolver evaluates the policy's menu rules.
type visibilityResolver struct {
	publicBag   domain.FlagBag
	baseline    domain.FlagBag
	financeRole domain.RoleID
	cashierRole domain.RoleID
	finance     []domain.Flag
	cashier     []domain.Flag
	unlocks     map[domain.RoleID][]domain.Flag
}

// NewVisibilityResolver builds a resolver from the policy. Exclusive roles are removed
// from the unlock table and clinic flags are removed from the finance/cashier flag
// lists, so a misconfigured policy can never break exclusivity.
func NewVisibilityResolver(policy *domain.Policy) VisibilityResolver {
	unlocks := make(map[domain.RoleID][]domain.Flag, len(policy.Unlocks))
	for role, flags := range policy.Unlocks {
		if policy.IsExclusiveRole(role) {
			continue
		}
		unlocks[role] = append([]domain.Flag(nil), flags...)
	}

	return &visibilityResolver{
		publicBag:   domain.NewFlagBag(policy.PublicFlags...),
		baseline:    domain.NewFlagBag(policy.ClinicBaseline...),
		financeRole: policy.FinanceRole,
		cashierRole: policy.CashierRole,
		finance:     withoutClinicFlags(policy.FinanceFlags),
		cashier:     withoutClinicFlags(policy.CashierFlags),
		unlocks:     unlocks,
	}
}

// Resolve applies the rules in order:
//  1. empty set: the fixed public bag
//  2. finance or cashier role present: only finance/cashier flags, nothing else considered
//  3. otherwise: the clinic baseline OR'ed with every role's unlocks
func (r *visibilityResolver) Resolve(roles domain.RoleSet) domain.FlagBag {
	if roles.IsEmpty() {
		return r.publicBag
	}

	isFinance := r.financeRole != "" && roles.Contains(r.financeRole)
	isCashier := r.cashierRole != "" && roles.Contains(r.cashierRole)
	if isFinance || isCashier {
		var enabled []domain.Flag
		if isFinance {
			enabled = append(enabled, r.finance...)
		}
		if isCashier {
			enabled = append(enabled, r.cashier...)
		}
		return domain.NewFlagBag(enabled...)
	}

	enabled := r.baseline.Enabled()
	for _, role := range roles.IDs() {
		enabled = append(enabled, r.unlocks[role]...)
	}
	return domain.NewFlagBag(enabled...)
}

func withoutClinicFlags(flags []domain.Flag) []domain.Flag {
	out := make([]domain.Flag, 0, len(flags))
	for _, f := range flags {
		if !f.IsClinic() {
			out = append(out, f)
		}
	}
	return out
}
