package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store defines the interface for persisting events.
type Store interface {
	AppendEvent(ctx context.Context, evt Event) (Event, error)
}

// Emitter provides event emission for trip and membership mutations.
type Emitter struct {
	store Store
	now   func() time.Time
}

// NewEmitter creates a new event emitter.
func NewEmitter(store Store) *Emitter {
	return &Emitter{
		store: store,
		now:   time.Now,
	}
}

// EmitInput describes the input for emitting an event.
type EmitInput struct {
	TripID     string
	Type       Type
	ActorType  ActorType
	ActorID    string
	EntityType string
	EntityID   string
	Payload    any
}

// Emit appends an event to the trip event journal.
func (e *Emitter) Emit(ctx context.Context, input EmitInput) (Event, error) {
	if e.store == nil {
		return Event{}, fmt.Errorf("event store is not configured")
	}

	payloadJSON, err := json.Marshal(input.Payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}

	evt := Event{
		TripID:      input.TripID,
		Timestamp:   e.now().UTC(),
		Type:        input.Type,
		ActorType:   input.ActorType,
		ActorID:     input.ActorID,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		PayloadJSON: payloadJSON,
	}

	return e.store.AppendEvent(ctx, evt)
}

// EmitTripCreated emits a trip.created event.
func (e *Emitter) EmitTripCreated(ctx context.Context, tripID, actorID string, payload TripCreatedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeTripCreated,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "trip",
		EntityID:   tripID,
		Payload:    payload,
	})
}

// EmitTripUpdated emits a trip.updated event.
func (e *Emitter) EmitTripUpdated(ctx context.Context, tripID, actorID string, payload TripUpdatedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeTripUpdated,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "trip",
		EntityID:   tripID,
		Payload:    payload,
	})
}

// EmitTripStatusChanged emits a trip.status_changed event.
func (e *Emitter) EmitTripStatusChanged(ctx context.Context, tripID, actorID string, payload TripStatusChangedPayload) (Event, error) {
	actorType := ActorTypeSystem
	if actorID != "" {
		actorType = ActorTypeUser
	}
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeTripStatusChanged,
		ActorType:  actorType,
		ActorID:    actorID,
		EntityType: "trip",
		EntityID:   tripID,
		Payload:    payload,
	})
}

// EmitTripDeleted emits a trip.deleted event.
func (e *Emitter) EmitTripDeleted(ctx context.Context, tripID, actorID string, payload TripDeletedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeTripDeleted,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "trip",
		EntityID:   tripID,
		Payload:    payload,
	})
}

// EmitTripRestored emits a trip.restored event.
func (e *Emitter) EmitTripRestored(ctx context.Context, tripID, actorID string) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeTripRestored,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "trip",
		EntityID:   tripID,
		Payload:    TripRestoredPayload{},
	})
}

// EmitMemberInvited emits a member.invited event.
func (e *Emitter) EmitMemberInvited(ctx context.Context, tripID, actorID string, payload MemberInvitedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeMemberInvited,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitMemberJoined emits a member.joined event.
func (e *Emitter) EmitMemberJoined(ctx context.Context, tripID string, payload MemberJoinedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeMemberJoined,
		ActorType:  ActorTypeUser,
		ActorID:    payload.UserID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitMemberLeft emits a member.left event.
func (e *Emitter) EmitMemberLeft(ctx context.Context, tripID string, payload MemberLeftPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeMemberLeft,
		ActorType:  ActorTypeUser,
		ActorID:    payload.UserID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitMemberRemoved emits a member.removed event.
func (e *Emitter) EmitMemberRemoved(ctx context.Context, tripID string, payload MemberRemovedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeMemberRemoved,
		ActorType:  ActorTypeUser,
		ActorID:    payload.RemovedBy,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitMemberRoleChanged emits a member.role_changed event.
func (e *Emitter) EmitMemberRoleChanged(ctx context.Context, tripID string, payload MemberRoleChangedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeMemberRoleChanged,
		ActorType:  ActorTypeUser,
		ActorID:    payload.ChangedBy,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitInvitationSent emits an invitation.sent event.
func (e *Emitter) EmitInvitationSent(ctx context.Context, tripID, actorID string, payload InvitationSentPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeInvitationSent,
		ActorType:  ActorTypeUser,
		ActorID:    actorID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitInvitationAccepted emits an invitation.accepted event.
func (e *Emitter) EmitInvitationAccepted(ctx context.Context, tripID string, payload InvitationAcceptedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeInvitationAccepted,
		ActorType:  ActorTypeUser,
		ActorID:    payload.UserID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}

// EmitInvitationRejected emits an invitation.rejected event.
func (e *Emitter) EmitInvitationRejected(ctx context.Context, tripID string, payload InvitationRejectedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		TripID:     tripID,
		Type:       TypeInvitationRejected,
		ActorType:  ActorTypeUser,
		ActorID:    payload.UserID,
		EntityType: "member",
		EntityID:   payload.MemberID,
		Payload:    payload,
	})
}
