// Package member defines the TripMember entity binding one user to one trip.
package member

import (
	"strings"
	"time"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/platform/id"
)

// Role determines a member's capability set within a trip.
type Role int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified Role = iota
	// RoleOwner is the single owning member, fixed at trip creation.
	RoleOwner
	// RoleAdmin manages trip fields and membership.
	RoleAdmin
	// RoleMember creates and edits their own subordinate resources.
	RoleMember
	// RoleViewer has read-only access.
	RoleViewer
)

// Status tracks the invitation and participation lifecycle.
type Status int

const (
	// StatusUnspecified represents an invalid membership status value.
	StatusUnspecified Status = iota
	// StatusPending indicates an invitation awaiting a response.
	StatusPending
	// StatusAccepted indicates active participation.
	StatusAccepted
	// StatusRejected indicates a declined invitation. Terminal.
	StatusRejected
	// StatusLeft indicates a voluntary departure. Terminal.
	StatusLeft
	// StatusRemoved indicates removal by a manager. Terminal.
	StatusRemoved
)

var (
	// ErrInvalidRole indicates a missing or unknown role value.
	ErrInvalidRole = apperrors.New(apperrors.CodeMemberInvalidRole, "member role is invalid")
	// ErrNotPending indicates an invitation response on a non-pending membership.
	ErrNotPending = apperrors.New(apperrors.CodeMemberNotPending, "membership is not pending")
	// ErrNotAccepted indicates a departure from a non-accepted membership.
	ErrNotAccepted = apperrors.New(apperrors.CodeMemberNotAccepted, "membership is not accepted")
	// ErrOwnerImmutable indicates an attempt to remove or re-role the owner.
	ErrOwnerImmutable = apperrors.New(apperrors.CodeMemberOwnerImmutable, "the trip owner's membership cannot be changed")
	// ErrOwnerRoleReserved indicates an attempt to grant the owner role.
	ErrOwnerRoleReserved = apperrors.New(apperrors.CodeMemberOwnerRoleReserved, "the owner role is fixed at trip creation")
)

// Member represents one user's relationship to one trip.
//
// Rows are never physically deleted. Terminal memberships (rejected, left,
// removed) are soft-deleted for audit retention, freeing the (trip, user)
// slot for a fresh invitation.
type Member struct {
	ID     string
	TripID string
	UserID string
	Role   Role
	Status Status
	// InvitedBy is the inviting user's ID; empty for the owner row.
	InvitedBy string
	InvitedAt *time.Time
	// JoinedAt is set on owner creation or on accepting an invitation.
	JoinedAt *time.Time
	// LeftAt is set when an accepted membership ends.
	LeftAt    *time.Time
	Notes     string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOwner creates the owner membership row. Owners are accepted from the
// start and carry no invitation metadata; the row is created together with
// its trip as one logical unit.
func NewOwner(tripID, userID string, now func() time.Time, idGenerator func() (string, error)) (Member, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	memberID, err := idGenerator()
	if err != nil {
		return Member{}, apperrors.Wrap(apperrors.CodeUnknown, "generate member id", err)
	}

	createdAt := now().UTC()
	joinedAt := createdAt
	return Member{
		ID:        memberID,
		TripID:    strings.TrimSpace(tripID),
		UserID:    strings.TrimSpace(userID),
		Role:      RoleOwner,
		Status:    StatusAccepted,
		JoinedAt:  &joinedAt,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NewInvitedInput describes an invitation membership row.
type NewInvitedInput struct {
	TripID    string
	UserID    string
	Role      Role
	InvitedBy string
	Notes     string
}

// NewInvited creates a pending membership row for an invited user. The owner
// role is never granted by invitation.
func NewInvited(input NewInvitedInput, now func() time.Time, idGenerator func() (string, error)) (Member, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	switch input.Role {
	case RoleAdmin, RoleMember, RoleViewer:
	case RoleOwner:
		return Member{}, ErrOwnerRoleReserved
	default:
		return Member{}, ErrInvalidRole
	}

	memberID, err := idGenerator()
	if err != nil {
		return Member{}, apperrors.Wrap(apperrors.CodeUnknown, "generate member id", err)
	}

	createdAt := now().UTC()
	invitedAt := createdAt
	return Member{
		ID:        memberID,
		TripID:    strings.TrimSpace(input.TripID),
		UserID:    strings.TrimSpace(input.UserID),
		Role:      input.Role,
		Status:    StatusPending,
		InvitedBy: strings.TrimSpace(input.InvitedBy),
		InvitedAt: &invitedAt,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// AcceptInvitation moves a pending membership to accepted and records the
// join time.
func (m *Member) AcceptInvitation(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Status != StatusPending {
		return ErrNotPending
	}
	joinedAt := now().UTC()
	m.Status = StatusAccepted
	m.JoinedAt = &joinedAt
	m.UpdatedAt = joinedAt
	return nil
}

// RejectInvitation moves a pending membership to rejected. Rejected is
// terminal; re-engagement requires a fresh invitation row.
func (m *Member) RejectInvitation(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Status != StatusPending {
		return ErrNotPending
	}
	m.Status = StatusRejected
	m.UpdatedAt = now().UTC()
	return nil
}

// LeaveTrip ends an accepted membership voluntarily. The owner-successor rule
// is the authorization kernel's responsibility, not the entity's.
func (m *Member) LeaveTrip(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Status != StatusAccepted {
		return ErrNotAccepted
	}
	leftAt := now().UTC()
	m.Status = StatusLeft
	m.LeftAt = &leftAt
	m.UpdatedAt = leftAt
	return nil
}

// RemoveFromTrip ends an accepted membership by manager action. The owner can
// never be removed.
func (m *Member) RemoveFromTrip(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Role == RoleOwner {
		return ErrOwnerImmutable
	}
	if m.Status != StatusAccepted {
		return ErrNotAccepted
	}
	leftAt := now().UTC()
	m.Status = StatusRemoved
	m.LeftAt = &leftAt
	m.UpdatedAt = leftAt
	return nil
}

// ChangeRole assigns a new non-owner role. The owner's role is immutable and
// the owner role is never assigned after creation.
func (m *Member) ChangeRole(next Role, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if m.Role == RoleOwner {
		return ErrOwnerImmutable
	}
	switch next {
	case RoleAdmin, RoleMember, RoleViewer:
	case RoleOwner:
		return ErrOwnerRoleReserved
	default:
		return ErrInvalidRole
	}
	m.Role = next
	m.UpdatedAt = now().UTC()
	return nil
}

// SoftDelete marks the row deleted for audit retention after a terminal
// transition.
func (m *Member) SoftDelete(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.IsDeleted = true
	m.UpdatedAt = now().UTC()
}

// IsActive reports whether the membership is accepted and not soft-deleted.
func (m Member) IsActive() bool {
	return m.Status == StatusAccepted && !m.IsDeleted
}

// IsTerminal reports whether the membership reached a terminal status.
func (m Member) IsTerminal() bool {
	switch m.Status {
	case StatusRejected, StatusLeft, StatusRemoved:
		return true
	default:
		return false
	}
}
