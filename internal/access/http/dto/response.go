package dto

import (
	"time"

	"github.com/allisson/rolegate/internal/access/domain"
)

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// MapSessionToResponse converts a session and its current roles to an API response.
func MapSessionToResponse(session *domain.Session, roles domain.RoleSet) SessionResponse {
	return SessionResponse{
		ID:        session.ID.String(),
		Identity:  session.Identity,
		Roles:     mapRoles(roles),
		CreatedAt: session.CreatedAt,
	}
}

// SessionSummary is a session without its roles, used by list responses.
type SessionSummary struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSessionsResponse represents a paginated list of sessions.
type ListSessionsResponse struct {
	Data  []SessionSummary `json:"data"`
	Total int              `json:"total"`
}

// MapSessionsToListResponse converts a page of sessions to a list API response.
func MapSessionsToListResponse(sessions []*domain.Session, total int) ListSessionsResponse {
	data := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		data = append(data, SessionSummary{
			ID:        s.ID.String(),
			Identity:  s.Identity,
			CreatedAt: s.CreatedAt,
		})
	}
	return ListSessionsResponse{Data: data, Total: total}
}

// RolesResponse lists the canonical roles of a session.
type RolesResponse struct {
	Roles []string `json:"roles"`
}

// MapRolesToResponse converts a role set to an API response.
func MapRolesToResponse(roles domain.RoleSet) RolesResponse {
	return RolesResponse{Roles: mapRoles(roles)}
}

// VisibilityResponse carries the full flag bag and the enabled subset.
type VisibilityResponse struct {
	Flags   map[domain.Flag]bool `json:"flags"`
	Enabled []domain.Flag        `json:"enabled"`
}

// MapFlagBagToResponse converts a flag bag to an API response.
func MapFlagBagToResponse(bag domain.FlagBag) VisibilityResponse {
	return VisibilityResponse{
		Flags:   bag.Map(),
		Enabled: bag.Enabled(),
	}
}

// ChromeResponse reports whether standard chrome is hidden on a path.
type ChromeResponse struct {
	Path       string `json:"path"`
	HideChrome bool   `json:"hide_chrome"`
}

// DecisionResponse is the outcome of a route guard.
type DecisionResponse struct {
	Path     string `json:"path"`
	Outcome  string `json:"outcome"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason"`
}

// MapDecisionToResponse converts a guard decision to an API response.
func MapDecisionToResponse(path string, decision domain.Decision) DecisionResponse {
	return DecisionResponse{
		Path:     path,
		Outcome:  string(decision.Outcome),
		Redirect: decision.Redirect,
		Reason:   string(decision.Reason),
	}
}

func mapRoles(roles domain.RoleSet) []string {
	ids := roles.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
