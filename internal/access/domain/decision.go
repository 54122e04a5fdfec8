package domain

// Outcome is the caller-visible result of a route guard.
type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeDeny  Outcome = "deny"
)

// Reason records why a decision was reached. Reasons are diagnostic only; callers act
// on the Outcome and Redirect.
type Reason string

const (
	ReasonRoleMatch    Reason = "role_match"
	ReasonPublicRoute  Reason = "public_route"
	ReasonRoleMismatch Reason = "role_mismatch"
	ReasonTimeout      Reason = "timeout"
	ReasonStoreClosed  Reason = "store_closed"
)

// Decision is the terminal state of a route guard.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
	Reason   Reason  `json:"reason"`
}

// Allow builds an allowing decision.
func Allow(reason Reason) Decision {
	return Decision{Outcome: OutcomeAllow, Reason: reason}
}

// Deny builds a denying decision that redirects to target.
func Deny(target string, reason Reason) Decision {
	return Decision{Outcome: OutcomeDeny, Redirect: target, Reason: reason}
}

// Allowed reports whether the decision permits entry.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
