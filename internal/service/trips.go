package service

import (
	"context"
	"fmt"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/member"
	"github.com/wanderlist/wanderlist/internal/trip/policy"
)

// CreateTrip validates input, persists the trip with its owner membership in
// one transaction, and journals the creation.
func (s *Service) CreateTrip(ctx context.Context, actorID string, input trip.CreateTripInput) (trip.Trip, error) {
	input.OwnerID = actorID

	ownerExists, err := s.stores.Users.UserExists(ctx, actorID)
	if err != nil {
		return trip.Trip{}, fmt.Errorf("check owner: %w", err)
	}
	if err := policy.ValidateTripCreation(policy.TripCreationInput{
		Title:     input.Title,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		OwnerID:   input.OwnerID,
	}, ownerExists, s.clock); err != nil {
		return trip.Trip{}, err
	}

	created, err := trip.CreateTrip(input, s.clock, s.idGenerator)
	if err != nil {
		return trip.Trip{}, err
	}
	owner, err := member.NewOwner(created.ID, actorID, s.clock, s.idGenerator)
	if err != nil {
		return trip.Trip{}, err
	}

	if err := s.stores.Trips.CreateTripWithOwner(ctx, created, owner); err != nil {
		return trip.Trip{}, err
	}

	if _, err := s.emitter.EmitTripCreated(ctx, created.ID, actorID, event.TripCreatedPayload{
		Title:       created.Title,
		Destination: created.Destination,
		OwnerID:     created.OwnerID,
		StartDate:   created.StartDate.Format("2006-01-02"),
		EndDate:     created.EndDate.Format("2006-01-02"),
		IsGroupTrip: created.IsGroupTrip,
	}); err != nil {
		return trip.Trip{}, fmt.Errorf("journal trip creation: %w", err)
	}
	return created, nil
}

// GetTrip returns a trip the actor may read.
func (s *Service) GetTrip(ctx context.Context, actorID, tripID string) (trip.Trip, error) {
	t, _, err := s.loadTripForRead(ctx, tripID, policy.Principal{UserID: actorID})
	return t, err
}

// ListTripsForUser returns a page of trips the actor belongs to.
func (s *Service) ListTripsForUser(ctx context.Context, actorID string, pageSize int, pageToken string) (storage.TripPage, error) {
	return s.stores.Trips.ListTripsByUser(ctx, actorID, pageSize, pageToken)
}

// ListPublicTrips returns a page of publicly readable trips.
func (s *Service) ListPublicTrips(ctx context.Context, pageSize int, pageToken string) (storage.TripPage, error) {
	return s.stores.Trips.ListPublicTrips(ctx, pageSize, pageToken)
}

// UpdateTrip applies a partial details update after the kernel check.
func (s *Service) UpdateTrip(ctx context.Context, actorID, tripID string, input trip.UpdateDetailsInput) (trip.Trip, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return trip.Trip{}, err
	}
	membership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return trip.Trip{}, err
	}
	if err := policy.ValidateTripUpdate(t, actor, membership, input); err != nil {
		return trip.Trip{}, err
	}

	if err := t.UpdateDetails(input, s.clock); err != nil {
		return trip.Trip{}, err
	}
	if err := s.stores.Trips.PutTrip(ctx, t); err != nil {
		return trip.Trip{}, err
	}

	if _, err := s.emitter.EmitTripUpdated(ctx, t.ID, actorID, event.TripUpdatedPayload{
		Fields: updatedFields(input),
	}); err != nil {
		return trip.Trip{}, fmt.Errorf("journal trip update: %w", err)
	}
	return t, nil
}

// ChangeTripStatus moves a trip along its status graph.
func (s *Service) ChangeTripStatus(ctx context.Context, actorID, tripID string, next trip.Status) (trip.Trip, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return trip.Trip{}, err
	}
	membership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return trip.Trip{}, err
	}
	if err := policy.ValidateStatusChange(t, actor, membership, next); err != nil {
		return trip.Trip{}, err
	}

	from := t.Status
	t.ChangeStatus(next, s.clock)
	if err := s.stores.Trips.PutTrip(ctx, t); err != nil {
		return trip.Trip{}, err
	}

	if _, err := s.emitter.EmitTripStatusChanged(ctx, t.ID, actorID, event.TripStatusChangedPayload{
		FromStatus: trip.StatusLabel(from),
		ToStatus:   trip.StatusLabel(next),
	}); err != nil {
		return trip.Trip{}, fmt.Errorf("journal status change: %w", err)
	}
	return t, nil
}

// DeleteTrip soft-deletes a trip. Owner only.
func (s *Service) DeleteTrip(ctx context.Context, actorID, tripID string) error {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	membership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return err
	}
	if err := policy.ValidateTripDeletion(t, actor, membership); err != nil {
		return err
	}

	t.SoftDelete(s.clock)
	if err := s.stores.Trips.PutTrip(ctx, t); err != nil {
		return err
	}

	if _, err := s.emitter.EmitTripDeleted(ctx, t.ID, actorID, event.TripDeletedPayload{}); err != nil {
		return fmt.Errorf("journal trip deletion: %w", err)
	}
	return nil
}

// RestoreTrip reverses a soft deletion. Owner only.
func (s *Service) RestoreTrip(ctx context.Context, actorID, tripID string) (trip.Trip, error) {
	actor := policy.Principal{UserID: actorID}
	t, err := s.stores.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return trip.Trip{}, err
	}
	membership, err := s.membershipFor(ctx, tripID, actorID)
	if err != nil {
		return trip.Trip{}, err
	}
	if err := policy.ValidateTripRestore(t, actor, membership); err != nil {
		return trip.Trip{}, err
	}

	t.Restore(s.clock)
	if err := s.stores.Trips.PutTrip(ctx, t); err != nil {
		return trip.Trip{}, err
	}

	if _, err := s.emitter.EmitTripRestored(ctx, t.ID, actorID); err != nil {
		return trip.Trip{}, fmt.Errorf("journal trip restore: %w", err)
	}
	return t, nil
}

// ListTripEvents returns a slice of the trip's journal the actor may read.
func (s *Service) ListTripEvents(ctx context.Context, actorID, tripID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if _, _, err := s.loadTripForRead(ctx, tripID, policy.Principal{UserID: actorID}); err != nil {
		return nil, err
	}
	return s.stores.Events.ListEvents(ctx, tripID, afterSeq, limit)
}

// updatedFields reports which detail fields an update touched, for the
// journal payload.
func updatedFields(input trip.UpdateDetailsInput) map[string]any {
	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Destination != nil {
		fields["destination"] = *input.Destination
	}
	if input.StartDate != nil {
		fields["start_date"] = input.StartDate.Format("2006-01-02")
	}
	if input.EndDate != nil {
		fields["end_date"] = input.EndDate.Format("2006-01-02")
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}
	if input.IsGroupTrip != nil {
		fields["is_group_trip"] = *input.IsGroupTrip
	}
	if input.BudgetLimit != nil {
		fields["budget_limit"] = *input.BudgetLimit
	}
	if input.Currency != nil {
		fields["currency"] = *input.Currency
	}
	return fields
}
