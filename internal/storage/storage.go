// Package storage defines persistence contracts for trip, membership, and
// event state.
package storage

import (
	"context"
	"time"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
// The member store returns it when a live membership row for the same
// (trip, user) pair blocks a second invitation.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// TripPage describes a page of trip records.
type TripPage struct {
	Trips         []trip.Trip
	NextPageToken string
}

// TripStore owns trip metadata including the derived member and expense
// projections stored on the trip row.
type TripStore interface {
	// CreateTripWithOwner atomically persists a new trip and its owner
	// membership row. Either both rows are written or neither is.
	CreateTripWithOwner(ctx context.Context, t trip.Trip, owner member.Member) error
	PutTrip(ctx context.Context, t trip.Trip) error
	GetTrip(ctx context.Context, id string) (trip.Trip, error)
	// ListTripsByUser returns a page of trips where the user holds a live
	// membership row, ordered by trip ID.
	ListTripsByUser(ctx context.Context, userID string, pageSize int, pageToken string) (TripPage, error)
	// ListPublicTrips returns a page of public, non-deleted trips.
	ListPublicTrips(ctx context.Context, pageSize int, pageToken string) (TripPage, error)
}

// MemberStore owns membership rows. Terminal rows are retained soft-deleted
// for audit history; the unique (trip, user) slot only covers live rows.
type MemberStore interface {
	PutMember(ctx context.Context, m member.Member) error
	GetMember(ctx context.Context, tripID, memberID string) (member.Member, error)
	// GetMemberByTripAndUser returns the live membership row for a user on
	// a trip. Soft-deleted rows are not visible through this lookup.
	GetMemberByTripAndUser(ctx context.Context, tripID, userID string) (member.Member, error)
	// ListMembersByTrip returns all live membership rows for a trip.
	ListMembersByTrip(ctx context.Context, tripID string) ([]member.Member, error)
	// ListActiveMembers returns accepted, live membership rows for a trip.
	ListActiveMembers(ctx context.Context, tripID string) ([]member.Member, error)
	// CountActiveAdmins counts accepted members holding the admin role,
	// excluding the given user. The owner row does not count.
	CountActiveAdmins(ctx context.Context, tripID, excludeUserID string) (int, error)
}

// User is a directory entry for a registered user. The directory is the
// existence oracle consulted before trips are created or invitations issued.
type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserDirectory owns the registered-user lookup.
type UserDirectory interface {
	PutUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

// Expense is a spend record attributed to a trip member. Amounts are in
// minor currency units.
type Expense struct {
	ID          string
	TripID      string
	MemberID    string
	Description string
	Amount      int64
	Currency    string
	IncurredAt  time.Time
	CreatedAt   time.Time
}

// ExpenseStore owns expense records feeding the trip spend projection.
type ExpenseStore interface {
	PutExpense(ctx context.Context, e Expense) error
	ListExpensesByTrip(ctx context.Context, tripID string) ([]Expense, error)
}

// TripProjection holds the derived counters stored on the trip row.
type TripProjection struct {
	TripID        string
	MemberCount   int
	TotalExpenses int64
	UpdatedAt     time.Time
}

// ProjectionStore recomputes derived trip counters from their source rows.
type ProjectionStore interface {
	// RecomputeTripProjection rebuilds member_count and total_expenses for
	// one trip from the membership and expense tables.
	RecomputeTripProjection(ctx context.Context, tripID string, now time.Time) (TripProjection, error)
}

// EventStore owns the append-only trip event journal.
type EventStore interface {
	// AppendEvent atomically appends an event and returns it with its
	// sequence number set.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, tripID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetLatestEventSeq returns the latest event sequence number for a
	// trip, or 0 when no events exist.
	GetLatestEventSeq(ctx context.Context, tripID string) (uint64, error)
}

// TripStatistics contains aggregate counters used by operator tooling.
type TripStatistics struct {
	TripCount    int64
	MemberCount  int64
	UserCount    int64
	ExpenseCount int64
}

// StatisticsStore centralizes aggregate count queries for operational use.
type StatisticsStore interface {
	// GetTripStatistics returns aggregate counts.
	// When since is nil, counts are for all time.
	GetTripStatistics(ctx context.Context, since *time.Time) (TripStatistics, error)
}
