package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeader, RoleMember:
		return true
	}
	return false
}

// RoleSet is an immutable, sorted and de-duplicated set of roles.
// All transitions return a new set; the receiver is never modified.
type RoleSet []Role

// NewRoleSet builds a set from the given roles, dropping unknown values and duplicates.
func NewRoleSet(roles ...Role) RoleSet {
	seen := make(map[Role]struct{}, len(roles))
	set := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		set = append(set, r)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	for _, role := range s {
		if role == r {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// With returns a new set that also contains r.
func (s RoleSet) With(r Role) RoleSet {
	return NewRoleSet(append(append(RoleSet{}, s...), r)...)
}

// Without returns a new set with r removed.
func (s RoleSet) Without(r Role) RoleSet {
	out := make(RoleSet, 0, len(s))
	for _, role := range s {
		if role != r {
			out = append(out, role)
		}
	}
	return NewRoleSet(out...)
}

// Demoted returns {member} when the set holds the leader role, otherwise the set unchanged.
func (s RoleSet) Demoted() RoleSet {
	if !s.Has(RoleLeader) {
		return s
	}
	return NewRoleSet(RoleMember)
}

// Equal reports whether both sets hold the same roles.
func (s RoleSet) Equal(other RoleSet) bool {
	a, b := NewRoleSet(s...), NewRoleSet(other...)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s RoleSet) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ParseRoleSet parses a comma separated role list.
func ParseRoleSet(value string) RoleSet {
	if strings.TrimSpace(value) == "" {
		return RoleSet{}
	}
	parts := strings.Split(value, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		roles = append(roles, Role(strings.TrimSpace(p)))
	}
	return NewRoleSet(roles...)
}

// Value implements driver.Valuer.
func (s RoleSet) Value() (driver.Value, error) {
	return NewRoleSet(s...).String(), nil
}

// Scan implements sql.Scanner.
func (s *RoleSet) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = RoleSet{}
	case string:
		*s = ParseRoleSet(v)
	case []byte:
		*s = ParseRoleSet(string(v))
	default:
		return fmt.Errorf("unsupported role set type %T", value)
	}
	return nil
}
