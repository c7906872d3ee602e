// Package policy is the authorization kernel every trip-scoped mutation must
// pass before proceeding. All checks are pure preconditions over
// already-loaded records; a failed check always aborts before any mutation.
package policy

import (
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

// Principal is an already-verified user identity. Authentication happens
// upstream; carrying the ID in its own type keeps the trust boundary visible.
type Principal struct {
	UserID string
}

// Capability is a named permission checked against a role.
type Capability int

const (
	// CapabilityView allows reading trip-scoped data.
	CapabilityView Capability = iota + 1
	// CapabilityEditTrip allows editing trip fields.
	CapabilityEditTrip
	// CapabilityInviteMembers allows inviting new members.
	CapabilityInviteMembers
	// CapabilityManageMembers allows removing members and changing roles.
	CapabilityManageMembers
	// CapabilityCreateResource allows creating subordinate resources.
	CapabilityCreateResource
	// CapabilityEditAnyResource allows editing any subordinate resource.
	CapabilityEditAnyResource
	// CapabilityChangeResourceStatus allows toggling subordinate item status.
	CapabilityChangeResourceStatus
)

type capabilitySet map[Capability]struct{}

func capabilities(caps ...Capability) capabilitySet {
	set := make(capabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// roleCapabilities is the single lookup table deciding what each role can do.
// Adding a capability is a data change here, not a code change at call sites.
var roleCapabilities = map[member.Role]capabilitySet{
	member.RoleOwner: capabilities(
		CapabilityView,
		CapabilityEditTrip,
		CapabilityInviteMembers,
		CapabilityManageMembers,
		CapabilityCreateResource,
		CapabilityEditAnyResource,
		CapabilityChangeResourceStatus,
	),
	member.RoleAdmin: capabilities(
		CapabilityView,
		CapabilityEditTrip,
		CapabilityInviteMembers,
		CapabilityManageMembers,
		CapabilityCreateResource,
		CapabilityEditAnyResource,
		CapabilityChangeResourceStatus,
	),
	member.RoleMember: capabilities(
		CapabilityView,
		CapabilityCreateResource,
		CapabilityChangeResourceStatus,
	),
	member.RoleViewer: capabilities(
		CapabilityView,
	),
}

// HasCapability reports whether the role grants the capability.
func HasCapability(role member.Role, capability Capability) bool {
	set, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = set[capability]
	return ok
}

// RoleFor returns the role attached to an active membership. Pending and
// departed memberships grant no role.
func RoleFor(m *member.Member) (member.Role, bool) {
	if m == nil || !m.IsActive() {
		return member.RoleUnspecified, false
	}
	return m.Role, true
}

// MemberHasCapability reports whether an active membership grants the
// capability. This is the check every subordinate bounded context performs.
func MemberHasCapability(m *member.Member, capability Capability) bool {
	role, ok := RoleFor(m)
	if !ok {
		return false
	}
	return HasCapability(role, capability)
}

// CanAccessTrip reports whether the user behind the membership may read the
// trip. Public trips are readable by anyone; private trips require an active
// membership.
func CanAccessTrip(t trip.Trip, m *member.Member) bool {
	if t.IsDeleted {
		return false
	}
	if t.IsPublic {
		return true
	}
	return m != nil && m.IsActive()
}
