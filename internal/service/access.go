package service

import (
	"context"
	"errors"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/member"
	"github.com/wanderlist/wanderlist/internal/trip/policy"
)

// membershipFor loads the caller's live membership row for a trip, mapping
// "no row" to a nil membership rather than an error.
func (s *Service) membershipFor(ctx context.Context, tripID, userID string) (*member.Member, error) {
	m, err := s.stores.Members.GetMemberByTripAndUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// loadTripForRead fetches a trip and enforces read access for the actor.
// Deleted trips surface as not found; private trips deny strangers.
func (s *Service) loadTripForRead(ctx context.Context, tripID string, actor policy.Principal) (trip.Trip, *member.Member, error) {
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return trip.Trip{}, nil, err
	}
	if t.IsDeleted {
		return trip.Trip{}, nil, storage.ErrNotFound
	}
	membership, err := s.membershipFor(ctx, tripID, actor.UserID)
	if err != nil {
		return trip.Trip{}, nil, err
	}
	if !policy.CanAccessTrip(t, membership) {
		return trip.Trip{}, nil, policy.ErrPermissionDenied
	}
	return t, membership, nil
}

// RoleFor reports the actor's effective role on a trip, if any.
func (s *Service) RoleFor(ctx context.Context, tripID, userID string) (member.Role, bool, error) {
	membership, err := s.membershipFor(ctx, tripID, userID)
	if err != nil {
		return member.RoleUnspecified, false, err
	}
	role, ok := policy.RoleFor(membership)
	return role, ok, nil
}

// HasCapability reports whether the actor holds a capability on a trip.
func (s *Service) HasCapability(ctx context.Context, tripID, userID string, capability policy.Capability) (bool, error) {
	membership, err := s.membershipFor(ctx, tripID, userID)
	if err != nil {
		return false, err
	}
	return policy.MemberHasCapability(membership, capability), nil
}
