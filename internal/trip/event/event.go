package event

import (
	"strings"
	"time"
)

// Type identifies the type of a trip event.
type Type string

// Trip lifecycle events.
const (
	// TypeTripCreated records the creation of a trip.
	TypeTripCreated Type = "trip.created"
	// TypeTripUpdated records updates to trip details.
	TypeTripUpdated Type = "trip.updated"
	// TypeTripStatusChanged records a trip status transition.
	TypeTripStatusChanged Type = "trip.status_changed"
	// TypeTripDeleted records the soft deletion of a trip.
	TypeTripDeleted Type = "trip.deleted"
	// TypeTripRestored records the restoration of a deleted trip.
	TypeTripRestored Type = "trip.restored"
)

// Membership events.
const (
	// TypeMemberInvited records an invitation being issued.
	TypeMemberInvited Type = "member.invited"
	// TypeMemberJoined records an invitee accepting and becoming active.
	TypeMemberJoined Type = "member.joined"
	// TypeMemberLeft records a member leaving voluntarily.
	TypeMemberLeft Type = "member.left"
	// TypeMemberRemoved records a member being removed by an admin.
	TypeMemberRemoved Type = "member.removed"
	// TypeMemberRoleChanged records a role change on an active member.
	TypeMemberRoleChanged Type = "member.role_changed"
)

// Invitation events.
// Events represent facts that have occurred, not commands/requests.
const (
	// TypeInvitationSent records an invitation grant being issued.
	TypeInvitationSent Type = "invitation.sent"
	// TypeInvitationAccepted records an invitation being accepted.
	TypeInvitationAccepted Type = "invitation.accepted"
	// TypeInvitationRejected records an invitation being declined.
	TypeInvitationRejected Type = "invitation.rejected"
)

// ActorType identifies who or what triggered an event.
type ActorType string

const (
	// ActorTypeSystem indicates the event was triggered by the system.
	ActorTypeSystem ActorType = "system"
	// ActorTypeUser indicates the event was triggered by a user.
	ActorTypeUser ActorType = "user"
)

// Event represents an immutable event in the trip event journal.
type Event struct {
	// TripID is the trip this event belongs to.
	TripID string
	// Seq is the event sequence number within the trip (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID is the user ID when ActorType is user.
	ActorID string
	// EntityType is the type of entity affected (trip, member).
	EntityType string
	// EntityID is the ID of the entity affected.
	EntityID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "trip", "member").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
