package policy

import (
	"strings"
	"time"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

const minTitleLength = 3

var (
	// ErrPermissionDenied indicates the caller's role or status lacks the
	// required capability.
	ErrPermissionDenied = apperrors.New(apperrors.CodePermissionDenied, "caller lacks the required capability")
	// ErrTitleTooShort indicates a trip title under the minimum length.
	ErrTitleTooShort = apperrors.New(apperrors.CodeTripTitleTooShort, "trip title must be at least 3 characters")
	// ErrStartInPast indicates a trip start date before today.
	ErrStartInPast = apperrors.New(apperrors.CodeTripStartInPast, "trip start date must not be in the past")
	// ErrTripDeleted indicates a mutation against a soft-deleted trip.
	ErrTripDeleted = apperrors.New(apperrors.CodeTripDeleted, "trip has been deleted")
	// ErrTripAlreadyDeleted indicates a repeated deletion.
	ErrTripAlreadyDeleted = apperrors.New(apperrors.CodeTripAlreadyDeleted, "trip is already deleted")
	// ErrTripCompleted indicates an invitation to a completed trip.
	ErrTripCompleted = apperrors.New(apperrors.CodeTripCompleted, "trip is completed")
	// ErrSelfInvite indicates a user inviting themselves.
	ErrSelfInvite = apperrors.New(apperrors.CodeMemberSelfInvite, "users cannot invite themselves")
	// ErrAlreadyMember indicates the invited user already holds a pending or
	// accepted membership.
	ErrAlreadyMember = apperrors.New(apperrors.CodeMemberAlreadyMember, "user is already a member of this trip")
	// ErrInvitedUserNotFound indicates the invited user does not exist.
	ErrInvitedUserNotFound = apperrors.New(apperrors.CodeNotFound, "invited user not found")
	// ErrOwnerNotFound indicates the owner identity does not exist.
	ErrOwnerNotFound = apperrors.New(apperrors.CodeNotFound, "owner user not found")
	// ErrOwnerNeedsSuccessor indicates the owner attempting to leave with no
	// other active admin in place.
	ErrOwnerNeedsSuccessor = apperrors.New(apperrors.CodeMemberOwnerNeedsSuccessor, "the owner cannot leave until another active admin exists")
)

// MemberAction names the membership mutations the kernel validates.
type MemberAction int

const (
	// ActionAcceptInvitation accepts a pending invitation.
	ActionAcceptInvitation MemberAction = iota + 1
	// ActionRejectInvitation declines a pending invitation.
	ActionRejectInvitation
	// ActionRemoveMember removes a non-owner member.
	ActionRemoveMember
	// ActionChangeRole changes a non-owner member's role.
	ActionChangeRole
	// ActionLeaveTrip ends the caller's own membership.
	ActionLeaveTrip
)

// TripCreationInput carries the fields the kernel validates before a trip is
// created.
type TripCreationInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	OwnerID   string
}

// ValidateTripCreation checks title length, date ordering, that the start
// date is not in the past, and that the owner identity exists. The caller
// resolves ownerExists against the user directory beforehand.
func ValidateTripCreation(input TripCreationInput, ownerExists bool, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if len(strings.TrimSpace(input.Title)) < minTitleLength {
		return ErrTitleTooShort
	}
	if !input.StartDate.Before(input.EndDate) {
		return trip.ErrDatesInverted
	}
	startDay := input.StartDate.UTC().Truncate(24 * time.Hour)
	today := now().UTC().Truncate(24 * time.Hour)
	if startDay.Before(today) {
		return ErrStartInPast
	}
	if !ownerExists {
		return ErrOwnerNotFound
	}
	return nil
}

// ValidateTripUpdate checks that the trip is live, that the caller's
// membership grants trip editing, and that an update touching both dates
// keeps them ordered. membership is the caller's own row, nil when absent.
func ValidateTripUpdate(t trip.Trip, actor Principal, membership *member.Member, input trip.UpdateDetailsInput) error {
	if t.IsDeleted {
		return ErrTripDeleted
	}
	if membership == nil || membership.UserID != actor.UserID || !MemberHasCapability(membership, CapabilityEditTrip) {
		return ErrPermissionDenied
	}
	if input.StartDate != nil && input.EndDate != nil && !input.StartDate.Before(*input.EndDate) {
		return trip.ErrDatesInverted
	}
	return nil
}

// ValidateMemberInvitation checks every precondition for inviting a user:
// the trip is live and not completed, the inviter holds the invite
// capability, the invited user exists, is not the inviter, holds no pending
// or accepted membership, and the requested role is a grantable one. The
// owner role is never granted by invitation.
func ValidateMemberInvitation(t trip.Trip, actor Principal, inviter *member.Member, invitedUserID string, role member.Role, invitedExists bool, existing *member.Member) error {
	if t.IsDeleted {
		return ErrTripDeleted
	}
	if t.Status == trip.StatusCompleted {
		return ErrTripCompleted
	}
	if inviter == nil || inviter.UserID != actor.UserID || !MemberHasCapability(inviter, CapabilityInviteMembers) {
		return ErrPermissionDenied
	}
	if !invitedExists {
		return ErrInvitedUserNotFound
	}
	if actor.UserID == strings.TrimSpace(invitedUserID) {
		return ErrSelfInvite
	}
	if existing != nil && !existing.IsDeleted {
		switch existing.Status {
		case member.StatusPending:
			return apperrors.WithMetadata(apperrors.CodeMemberAlreadyMember,
				"user already has a pending invitation",
				map[string]string{"Status": member.StatusLabel(existing.Status)})
		case member.StatusAccepted:
			return apperrors.WithMetadata(apperrors.CodeMemberAlreadyMember,
				"user is already a member of this trip",
				map[string]string{"Status": member.StatusLabel(existing.Status)})
		}
	}
	switch role {
	case member.RoleAdmin, member.RoleMember, member.RoleViewer:
	case member.RoleOwner:
		return member.ErrOwnerRoleReserved
	default:
		return member.ErrInvalidRole
	}
	return nil
}

// ValidateMemberAction checks a membership mutation before it is applied.
// actorMembership is the caller's own row for the trip (nil when absent);
// hasOtherAdmin reports whether another active admin exists besides the
// target, resolved by the caller for leave_trip on the owner.
func ValidateMemberAction(t trip.Trip, actor Principal, actorMembership *member.Member, target member.Member, action MemberAction, hasOtherAdmin bool) error {
	if t.IsDeleted {
		return ErrTripDeleted
	}

	switch action {
	case ActionAcceptInvitation, ActionRejectInvitation:
		if actor.UserID != target.UserID {
			return ErrPermissionDenied
		}
		if target.Status != member.StatusPending {
			return member.ErrNotPending
		}
		return nil

	case ActionRemoveMember, ActionChangeRole:
		if actorMembership == nil || actorMembership.UserID != actor.UserID || !MemberHasCapability(actorMembership, CapabilityManageMembers) {
			return ErrPermissionDenied
		}
		if target.Role == member.RoleOwner {
			return member.ErrOwnerImmutable
		}
		return nil

	case ActionLeaveTrip:
		if actor.UserID != target.UserID {
			return ErrPermissionDenied
		}
		if target.Status != member.StatusAccepted {
			return member.ErrNotAccepted
		}
		if target.Role == member.RoleOwner && !hasOtherAdmin {
			return ErrOwnerNeedsSuccessor
		}
		return nil

	default:
		return apperrors.New(apperrors.CodeUnknown, "unknown member action")
	}
}

// ValidateTripDeletion checks that the caller is the trip owner and the trip
// is not already deleted.
func ValidateTripDeletion(t trip.Trip, actor Principal, membership *member.Member) error {
	if membership == nil || membership.UserID != actor.UserID || !membership.IsActive() || membership.Role != member.RoleOwner {
		return ErrPermissionDenied
	}
	if t.IsDeleted {
		return ErrTripAlreadyDeleted
	}
	return nil
}

// ValidateTripRestore checks that the caller is the trip owner and the trip
// is currently deleted.
func ValidateTripRestore(t trip.Trip, actor Principal, membership *member.Member) error {
	if membership == nil || membership.UserID != actor.UserID || !membership.IsActive() || membership.Role != member.RoleOwner {
		return ErrPermissionDenied
	}
	if !t.IsDeleted {
		return apperrors.New(apperrors.CodeTripNotDeleted, "trip is not deleted")
	}
	return nil
}

// ValidateStatusChange checks that the caller may move the trip to the next
// status and that the transition is legal.
func ValidateStatusChange(t trip.Trip, actor Principal, membership *member.Member, next trip.Status) error {
	if t.IsDeleted {
		return ErrTripDeleted
	}
	if membership == nil || membership.UserID != actor.UserID || !MemberHasCapability(membership, CapabilityEditTrip) {
		return ErrPermissionDenied
	}
	return trip.ValidateStatusTransition(t.Status, next)
}
