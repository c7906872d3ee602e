package event

// TripCreatedPayload captures the payload for trip.created events.
type TripCreatedPayload struct {
	Title       string `json:"title"`
	Destination string `json:"destination,omitempty"`
	OwnerID     string `json:"owner_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsGroupTrip bool   `json:"is_group_trip"`
}

// TripUpdatedPayload captures the payload for trip.updated events.
type TripUpdatedPayload struct {
	Fields map[string]any `json:"fields"`
}

// TripStatusChangedPayload captures the payload for trip.status_changed events.
type TripStatusChangedPayload struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// TripDeletedPayload captures the payload for trip.deleted events.
type TripDeletedPayload struct {
	Reason string `json:"reason,omitempty"`
}

// TripRestoredPayload captures the payload for trip.restored events.
type TripRestoredPayload struct{}

// MemberInvitedPayload captures the payload for member.invited events.
type MemberInvitedPayload struct {
	MemberID  string `json:"member_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	InvitedBy string `json:"invited_by"`
}

// MemberJoinedPayload captures the payload for member.joined events.
type MemberJoinedPayload struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
}

// MemberLeftPayload captures the payload for member.left events.
type MemberLeftPayload struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
	Reason   string `json:"reason,omitempty"`
}

// MemberRemovedPayload captures the payload for member.removed events.
type MemberRemovedPayload struct {
	MemberID  string `json:"member_id"`
	UserID    string `json:"user_id"`
	RemovedBy string `json:"removed_by"`
}

// MemberRoleChangedPayload captures the payload for member.role_changed events.
type MemberRoleChangedPayload struct {
	MemberID  string `json:"member_id"`
	UserID    string `json:"user_id"`
	FromRole  string `json:"from_role"`
	ToRole    string `json:"to_role"`
	ChangedBy string `json:"changed_by"`
}

// InvitationSentPayload captures the payload for invitation.sent events.
type InvitationSentPayload struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
}

// InvitationAcceptedPayload captures the payload for invitation.accepted events.
type InvitationAcceptedPayload struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
}

// InvitationRejectedPayload captures the payload for invitation.rejected events.
type InvitationRejectedPayload struct {
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
}
