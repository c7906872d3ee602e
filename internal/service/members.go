package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/invite"
	"github.com/wanderlist/wanderlist/internal/trip/member"
	"github.com/wanderlist/wanderlist/internal/trip/policy"
)

// InviteResult carries the pending membership and, when a grant signer is
// configured, the signed invitation grant for delivery to the invitee.
type InviteResult struct {
	Member member.Member
	Grant  string
}

// InviteMember issues an invitation after the kernel check. The live
// (trip, user) slot is guarded twice: by the kernel lookup and by the
// partial unique index, which closes the concurrent-invite race.
func (s *Service) InviteMember(ctx context.Context, actorID, tripID, invitedUserID string, role member.Role) (InviteResult, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return InviteResult{}, err
	}
	inviter, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return InviteResult{}, err
	}
	invitedExists, err := s.stores.Users.UserExists(ctx, invitedUserID)
	if err != nil {
		return InviteResult{}, fmt.Errorf("check invited user: %w", err)
	}
	existing, err := s.membershipFor(ctx, tripID, invitedUserID)
	if err != nil {
		return InviteResult{}, err
	}

	if err := policy.ValidateMemberInvitation(t, actor, inviter, invitedUserID, role, invitedExists, existing); err != nil {
		return InviteResult{}, err
	}

	invited, err := member.NewInvited(member.NewInvitedInput{
		TripID:    tripID,
		UserID:    invitedUserID,
		Role:      role,
		InvitedBy: actorID,
	}, s.clock, s.idGenerator)
	if err != nil {
		return InviteResult{}, err
	}

	if err := s.stores.Members.PutMember(ctx, invited); err != nil {
		// A concurrent invite can win the slot between the kernel check
		// and this write.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return InviteResult{}, policy.ErrAlreadyMember
		}
		return InviteResult{}, err
	}

	result := InviteResult{Member: invited}
	if s.grantSigner != nil {
		grant, err := invite.IssueGrant(*s.grantSigner, invite.GrantExpectation{
			TripID:   tripID,
			MemberID: invited.ID,
			UserID:   invitedUserID,
		}, invited.ID)
		if err != nil {
			return InviteResult{}, fmt.Errorf("issue invite grant: %w", err)
		}
		result.Grant = grant
	}

	if _, err := s.emitter.EmitMemberInvited(ctx, tripID, actorID, event.MemberInvitedPayload{
		MemberID:  invited.ID,
		UserID:    invited.UserID,
		Role:      member.RoleLabel(invited.Role),
		InvitedBy: actorID,
	}); err != nil {
		return InviteResult{}, fmt.Errorf("journal invitation: %w", err)
	}
	if _, err := s.emitter.EmitInvitationSent(ctx, tripID, actorID, event.InvitationSentPayload{
		MemberID: invited.ID,
		UserID:   invited.UserID,
		Role:     member.RoleLabel(invited.Role),
	}); err != nil {
		return InviteResult{}, fmt.Errorf("journal invitation sent: %w", err)
	}
	return result, nil
}

// AcceptInvitation moves the actor's pending membership to accepted. When a
// grant verifier is configured and a grant is presented, the grant must bind
// this trip, membership, and user.
func (s *Service) AcceptInvitation(ctx context.Context, actorID, tripID, grant string) (member.Member, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return member.Member{}, err
	}
	target, err := s.stores.Members.GetMemberByTripAndUser(ctx, tripID, actorID)
	if err != nil {
		return member.Member{}, err
	}
	if err := policy.ValidateMemberAction(t, actor, nil, target, policy.ActionAcceptInvitation, false); err != nil {
		return member.Member{}, err
	}
	if s.grantVerifier != nil && grant != "" {
		if _, err := invite.ValidateGrant(grant, invite.GrantExpectation{
			TripID:   tripID,
			MemberID: target.ID,
			UserID:   actorID,
		}, *s.grantVerifier); err != nil {
			return member.Member{}, err
		}
	}

	if err := target.AcceptInvitation(s.clock); err != nil {
		return member.Member{}, err
	}
	if err := s.stores.Members.PutMember(ctx, target); err != nil {
		return member.Member{}, err
	}
	if _, err := s.stores.Projections.RecomputeTripProjection(ctx, tripID, s.clock()); err != nil {
		return member.Member{}, fmt.Errorf("recompute projection: %w", err)
	}

	if _, err := s.emitter.EmitMemberJoined(ctx, tripID, event.MemberJoinedPayload{
		MemberID: target.ID,
		UserID:   target.UserID,
		Role:     member.RoleLabel(target.Role),
	}); err != nil {
		return member.Member{}, fmt.Errorf("journal member joined: %w", err)
	}
	if _, err := s.emitter.EmitInvitationAccepted(ctx, tripID, event.InvitationAcceptedPayload{
		MemberID: target.ID,
		UserID:   target.UserID,
	}); err != nil {
		return member.Member{}, fmt.Errorf("journal invitation accepted: %w", err)
	}
	return target, nil
}

// RejectInvitation declines the actor's pending membership. The row goes
// terminal and is soft-deleted, freeing the slot for a fresh invitation.
func (s *Service) RejectInvitation(ctx context.Context, actorID, tripID string) error {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	target, err := s.stores.Members.GetMemberByTripAndUser(ctx, tripID, actorID)
	if err != nil {
		return err
	}
	if err := policy.ValidateMemberAction(t, actor, nil, target, policy.ActionRejectInvitation, false); err != nil {
		return err
	}

	if err := target.RejectInvitation(s.clock); err != nil {
		return err
	}
	target.SoftDelete(s.clock)
	if err := s.stores.Members.PutMember(ctx, target); err != nil {
		return err
	}

	if _, err := s.emitter.EmitInvitationRejected(ctx, tripID, event.InvitationRejectedPayload{
		MemberID: target.ID,
		UserID:   target.UserID,
	}); err != nil {
		return fmt.Errorf("journal invitation rejected: %w", err)
	}
	return nil
}

// LeaveTrip ends the actor's accepted membership. The owner must have
// another active admin in place before leaving.
func (s *Service) LeaveTrip(ctx context.Context, actorID, tripID string) error {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	target, err := s.stores.Members.GetMemberByTripAndUser(ctx, tripID, actorID)
	if err != nil {
		return err
	}

	hasOtherAdmin := false
	if target.Role == member.RoleOwner {
		count, err := s.stores.Members.CountActiveAdmins(ctx, tripID, actorID)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		hasOtherAdmin = count > 0
	}
	if err := policy.ValidateMemberAction(t, actor, &target, target, policy.ActionLeaveTrip, hasOtherAdmin); err != nil {
		return err
	}

	if err := target.LeaveTrip(s.clock); err != nil {
		return err
	}
	target.SoftDelete(s.clock)
	if err := s.stores.Members.PutMember(ctx, target); err != nil {
		return err
	}
	if _, err := s.stores.Projections.RecomputeTripProjection(ctx, tripID, s.clock()); err != nil {
		return fmt.Errorf("recompute projection: %w", err)
	}

	if _, err := s.emitter.EmitMemberLeft(ctx, tripID, event.MemberLeftPayload{
		MemberID: target.ID,
		UserID:   target.UserID,
	}); err != nil {
		return fmt.Errorf("journal member left: %w", err)
	}
	return nil
}

// RemoveMember removes another member by manager action.
func (s *Service) RemoveMember(ctx context.Context, actorID, tripID, memberID string) error {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	actorMembership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return err
	}
	target, err := s.stores.Members.GetMember(ctx, tripID, memberID)
	if err != nil {
		return err
	}
	if err := policy.ValidateMemberAction(t, actor, actorMembership, target, policy.ActionRemoveMember, false); err != nil {
		return err
	}

	if err := target.RemoveFromTrip(s.clock); err != nil {
		return err
	}
	target.SoftDelete(s.clock)
	if err := s.stores.Members.PutMember(ctx, target); err != nil {
		return err
	}
	if _, err := s.stores.Projections.RecomputeTripProjection(ctx, tripID, s.clock()); err != nil {
		return fmt.Errorf("recompute projection: %w", err)
	}

	if _, err := s.emitter.EmitMemberRemoved(ctx, tripID, event.MemberRemovedPayload{
		MemberID:  target.ID,
		UserID:    target.UserID,
		RemovedBy: actorID,
	}); err != nil {
		return fmt.Errorf("journal member removed: %w", err)
	}
	return nil
}

// ChangeMemberRole assigns a new non-owner role to a member.
func (s *Service) ChangeMemberRole(ctx context.Context, actorID, tripID, memberID string, next member.Role) (member.Member, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return member.Member{}, err
	}
	actorMembership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return member.Member{}, err
	}
	target, err := s.stores.Members.GetMember(ctx, tripID, memberID)
	if err != nil {
		return member.Member{}, err
	}
	if err := policy.ValidateMemberAction(t, actor, actorMembership, target, policy.ActionChangeRole, false); err != nil {
		return member.Member{}, err
	}

	from := target.Role
	if err := target.ChangeRole(next, s.clock); err != nil {
		return member.Member{}, err
	}
	if err := s.stores.Members.PutMember(ctx, target); err != nil {
		return member.Member{}, err
	}

	if _, err := s.emitter.EmitMemberRoleChanged(ctx, tripID, event.MemberRoleChangedPayload{
		MemberID:  target.ID,
		UserID:    target.UserID,
		FromRole:  member.RoleLabel(from),
		ToRole:    member.RoleLabel(next),
		ChangedBy: actorID,
	}); err != nil {
		return member.Member{}, fmt.Errorf("journal role change: %w", err)
	}
	return target, nil
}

// ListMembers returns live membership rows for a trip the actor may read.
func (s *Service) ListMembers(ctx context.Context, actorID, tripID string) ([]member.Member, error) {
	if _, _, err := s.loadTripForRead(ctx, tripID, policy.Principal{UserID: actorID}); err != nil {
		return nil, err
	}
	return s.stores.Members.ListMembersByTrip(ctx, tripID)
}
