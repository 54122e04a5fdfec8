// Package domain defines the role-derived authorization and visibility model.
//
// A session carries a flat set of opaque role identifiers. Everything else in this
// package (visibility flags, route decisions, the static policy) is derived from that
// set and is never stored independently of it.
package domain

import (
	"slices"
	"strings"
)

// RoleID is an opaque, case-insensitive role identifier in canonical form.
// Values are produced by NormalizeRoleID and compared byte-for-byte afterwards.
type RoleID string

// NormalizeRoleID trims surrounding whitespace and lower-cases the identifier.
func NormalizeRoleID(raw string) RoleID {
	return RoleID(strings.ToLower(strings.TrimSpace(raw)))
}

// String returns the canonical identifier.
func (r RoleID) String() string {
	return string(r)
}

// RoleSet is an immutable set of canonical role identifiers.
// The zero value is the empty set.
type RoleSet struct {
	ids map[RoleID]struct{}
}

// NewRoleSet normalizes and deduplicates raw identifiers into a RoleSet.
// Identifiers that are blank after trimming are dropped.
func NewRoleSet(raw ...string) RoleSet {
	if len(raw) == 0 {
		return RoleSet{}
	}
	ids := make(map[RoleID]struct{}, len(raw))
	for _, r := range raw {
		id := NormalizeRoleID(r)
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	if len(ids) == 0 {
		return RoleSet{}
	}
	return RoleSet{ids: ids}
}

// RoleSetOf builds a RoleSet from identifiers that are already canonical.
func RoleSetOf(ids ...RoleID) RoleSet {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	return NewRoleSet(raw...)
}

// Len returns the number of distinct roles.
func (s RoleSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set holds no roles.
func (s RoleSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is a member of the set.
func (s RoleSet) Contains(id RoleID) bool {
	_, ok := s.ids[id]
	return ok
}

// ContainsAny reports whether any of ids is a member of the set.
func (s RoleSet) ContainsAny(ids ...RoleID) bool {
	for _, id := range ids {
		if s.Contains(id) {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for id := range small.ids {
		if large.Contains(id) {
			return true
		}
	}
	return false
}

// IDs returns the members sorted lexically. The returned slice is a copy.
func (s RoleSet) IDs() []RoleID {
	ids := make([]RoleID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Strings returns the members as plain strings, sorted lexically.
func (s RoleSet) Strings() []string {
	ids := s.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Equal reports whether both sets hold exactly the same roles.
func (s RoleSet) Equal(other RoleSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
