package domain

import "strings"

// Route is an entry of the static route table.
// RequiredRole is empty for routes that any session may enter.
type Route struct {
	Path           string `yaml:"path"            json:"path"`
	RequiredRole   RoleID `yaml:"required_role"   json:"required_role,omitempty"`
	RedirectOnDeny string `yaml:"redirect_on_deny" json:"redirect_on_deny,omitempty"`
}

// IsProtected reports whether entering the route requires a role.
func (r Route) IsProtected() bool {
	return r.RequiredRole != ""
}

// Matches reports whether the request path falls under this route's pattern.
func (r Route) Matches(path string) bool {
	return MatchPath(r.Path, path)
}

// MatchPath checks if the request path matches the route pattern.
// Supports three types of wildcards:
//  1. Full wildcard: "*" matches any path
//  2. Trailing wildcard: "/cashier/*" matches any path starting with "/cashier/" (greedy)
//  3. Mid-path wildcard: "/wards/*/rounds" matches paths with * as a single segment
//
// Matching is case-sensitive.
func MatchPath(pattern, path string) bool {
	if pattern == "*" {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return pattern == path
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(path, prefix+"/")
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i := range patternParts {
		if patternParts[i] == "*" {
			continue
		}
		if patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}
