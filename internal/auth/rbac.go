package auth

import "strings"

// Role is one of a closed, totally ordered set. A higher rank strictly
// dominates every lower one.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// roleRanks is the explicit rank table. Relying on declaration order would
// make the hierarchy an accident of file layout.
var roleRanks = map[Role]int{
	RoleViewer: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// Rank returns the role's position in the hierarchy, or 0 for roles outside
// the closed set. Rank 0 never passes an authorization check.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Known reports whether the role belongs to the hierarchy.
func (r Role) Known() bool {
	return r.Rank() > 0
}

// ParseRole normalizes a textual role. The bool result is false for values
// outside the hierarchy.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	return role, role.Known()
}

// Authorize decides whether the identity's role satisfies the declared
// requirement. An empty requirement permits any authenticated identity.
// Otherwise the threshold is the minimum rank among the listed roles: a
// requirement of "admin or owner" must admit the lesser of the two, and rank
// comparison subsumes set membership in a total order. Identities with an
// unknown role are denied rather than crashing on a missing rank.
func Authorize(identity Identity, required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	rank := identity.Role.Rank()
	if rank == 0 {
		return false
	}
	min := 0
	for _, r := range required {
		rr := r.Rank()
		if min == 0 || (rr > 0 && rr < min) {
			min = rr
		}
	}
	if min == 0 {
		return false
	}
	return rank >= min
}
