// Package trip defines the Trip entity and its field-level invariants.
package trip

import (
	"strings"
	"time"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/platform/id"
)

// Status describes the lifecycle of a trip.
type Status int

const (
	// StatusUnspecified represents an invalid trip status value.
	StatusUnspecified Status = iota
	// StatusPlanning indicates the trip is being planned.
	StatusPlanning
	// StatusActive indicates the trip is underway.
	StatusActive
	// StatusCompleted indicates the trip has finished.
	StatusCompleted
	// StatusCancelled indicates the trip was called off.
	StatusCancelled
)

var (
	// ErrDatesInverted indicates a start date on or after the end date.
	ErrDatesInverted = apperrors.New(apperrors.CodeTripDatesInverted, "start date must precede end date")
)

// Trip represents a shared, time-bounded planning workspace owned by one user.
//
// MemberCount and TotalExpenses are cached projections recomputed from
// membership and expense queries; they are not the source of truth.
type Trip struct {
	ID          string
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	// OwnerID identifies the owning user and never changes after creation.
	OwnerID     string
	Category    string
	Status      Status
	IsGroupTrip bool
	IsPublic    bool
	// BudgetLimit is expressed in minor currency units.
	BudgetLimit   int64
	Currency      string
	MemberCount   int
	TotalExpenses int64
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateTripInput describes the metadata needed to create a trip.
type CreateTripInput struct {
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	OwnerID     string
	Category    string
	IsGroupTrip bool
	IsPublic    bool
	BudgetLimit int64
	Currency    string
}

// CreateTrip creates a new trip with a generated ID and timestamps. The trip
// starts in planning with the owner as its only member.
func CreateTrip(input CreateTripInput, now func() time.Time, idGenerator func() (string, error)) (Trip, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized := normalizeCreateTripInput(input)
	if !normalized.StartDate.Before(normalized.EndDate) {
		return Trip{}, ErrDatesInverted
	}

	tripID, err := idGenerator()
	if err != nil {
		return Trip{}, apperrors.Wrap(apperrors.CodeUnknown, "generate trip id", err)
	}

	createdAt := now().UTC()
	return Trip{
		ID:            tripID,
		Title:         normalized.Title,
		Destination:   normalized.Destination,
		StartDate:     normalized.StartDate,
		EndDate:       normalized.EndDate,
		OwnerID:       normalized.OwnerID,
		Category:      normalized.Category,
		Status:        StatusPlanning,
		IsGroupTrip:   normalized.IsGroupTrip,
		IsPublic:      normalized.IsPublic,
		BudgetLimit:   normalized.BudgetLimit,
		Currency:      normalized.Currency,
		MemberCount:   1,
		TotalExpenses: 0,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

func normalizeCreateTripInput(input CreateTripInput) CreateTripInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Destination = strings.TrimSpace(input.Destination)
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.Category = strings.TrimSpace(input.Category)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	return input
}

// UpdateDetailsInput carries a partial update; nil fields are left untouched.
type UpdateDetailsInput struct {
	Title       *string
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *string
	IsGroupTrip *bool
	IsPublic    *bool
	BudgetLimit *int64
	Currency    *string
}

// UpdateDetails mutates only the supplied fields and bumps UpdatedAt. The
// resulting date pair must stay ordered whenever either date changes.
// UpdateDetails performs no permission check.
func (t *Trip) UpdateDetails(input UpdateDetailsInput, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}

	start := t.StartDate
	end := t.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if !start.Before(end) {
		return ErrDatesInverted
	}

	if input.Title != nil {
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Destination != nil {
		t.Destination = strings.TrimSpace(*input.Destination)
	}
	t.StartDate = start
	t.EndDate = end
	if input.Category != nil {
		t.Category = strings.TrimSpace(*input.Category)
	}
	if input.IsGroupTrip != nil {
		t.IsGroupTrip = *input.IsGroupTrip
	}
	if input.IsPublic != nil {
		t.IsPublic = *input.IsPublic
	}
	if input.BudgetLimit != nil {
		t.BudgetLimit = *input.BudgetLimit
	}
	if input.Currency != nil {
		t.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	t.UpdatedAt = now().UTC()
	return nil
}

// ChangeStatus sets the trip status unconditionally. Transition legality is
// enforced in one place by ValidateStatusTransition before callers mutate.
func (t *Trip) ChangeStatus(next Status, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.Status = next
	t.UpdatedAt = now().UTC()
}

// SoftDelete marks the trip deleted. Callers check IsActive first so repeat
// deletions surface as conflicts.
func (t *Trip) SoftDelete(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.IsDeleted = true
	t.UpdatedAt = now().UTC()
}

// Restore clears the deleted flag.
func (t *Trip) Restore(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.IsDeleted = false
	t.UpdatedAt = now().UTC()
}

// IsActive reports whether the trip has not been soft-deleted.
func (t Trip) IsActive() bool {
	return !t.IsDeleted
}
