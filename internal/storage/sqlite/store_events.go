package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wanderlist/wanderlist/internal/trip/event"
)

// EventStore methods (append-only trip event journal)

// AppendEvent atomically appends an event and returns it with its sequence
// number set. Sequence assignment and the insert share one transaction so
// concurrent appends for the same trip serialize on the primary key.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.TripID) == "" {
		return event.Event{}, fmt.Errorf("trip id is required")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("event type is required")
	}

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq uint64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM trip_events WHERE trip_id = ?`,
		evt.TripID).Scan(&seq)
	if err != nil {
		return event.Event{}, fmt.Errorf("next event seq: %w", err)
	}
	evt.Seq = seq

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_events (
			trip_id, seq, timestamp, type, actor_type, actor_id,
			entity_type, entity_id, payload
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.TripID,
		evt.Seq,
		toMillis(evt.Timestamp),
		string(evt.Type),
		string(evt.ActorType),
		evt.ActorID,
		evt.EntityType,
		evt.EntityID,
		string(payload),
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit append tx: %w", err)
	}
	evt.PayloadJSON = payload
	return evt, nil
}

// ListEvents returns events ordered by sequence ascending.
func (s *Store) ListEvents(ctx context.Context, tripID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, fmt.Errorf("trip id is required")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT trip_id, seq, timestamp, type, actor_type, actor_id,
		        entity_type, entity_id, payload
		   FROM trip_events
		  WHERE trip_id = ? AND seq > ?
		  ORDER BY seq ASC
		  LIMIT ?`,
		tripID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var timestamp int64
		var eventType, actorType, payload string
		if err := rows.Scan(
			&evt.TripID,
			&evt.Seq,
			&timestamp,
			&eventType,
			&actorType,
			&evt.ActorID,
			&evt.EntityType,
			&evt.EntityID,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		evt.Timestamp = fromMillis(timestamp)
		evt.Type = event.Type(eventType)
		evt.ActorType = event.ActorType(actorType)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}

// GetLatestEventSeq returns the latest event sequence number for a trip.
// Returns 0 if no events exist.
func (s *Store) GetLatestEventSeq(ctx context.Context, tripID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return 0, fmt.Errorf("trip id is required")
	}

	var seq uint64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM trip_events WHERE trip_id = ?`,
		tripID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("latest event seq: %w", err)
	}
	return seq, nil
}
