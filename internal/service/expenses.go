package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip/policy"
)

// RecordExpenseInput describes a new shared expense on a trip.
type RecordExpenseInput struct {
	TripID      string
	Description string
	Amount      int64
	Currency    string
}

// RecordExpense stores an expense against the actor's membership and folds
// it into the trip projection.
func (s *Service) RecordExpense(ctx context.Context, actorID string, input RecordExpenseInput) (storage.Expense, error) {
	actor := policy.Principal{UserID: actorID}
	_, membership, err := s.loadTripForRead(ctx, input.TripID, actor)
	if err != nil {
		return storage.Expense{}, err
	}
	if !policy.MemberHasCapability(membership, policy.CapabilityCreateResource) {
		return storage.Expense{}, policy.ErrPermissionDenied
	}
	if strings.TrimSpace(input.Description) == "" {
		return storage.Expense{}, apperrors.New(apperrors.CodeExpenseEmptyDescription, "expense description is required")
	}
	if input.Amount <= 0 {
		return storage.Expense{}, apperrors.New(apperrors.CodeExpenseInvalidAmount, "expense amount must be positive")
	}

	id, err := s.idGenerator()
	if err != nil {
		return storage.Expense{}, fmt.Errorf("generate expense id: %w", err)
	}
	now := s.clock().UTC()
	expense := storage.Expense{
		ID:          id,
		TripID:      input.TripID,
		MemberID:    membership.ID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		IncurredAt:  now,
		CreatedAt:   now,
	}
	if err := s.stores.Expenses.PutExpense(ctx, expense); err != nil {
		return storage.Expense{}, err
	}
	if _, err := s.stores.Projections.RecomputeTripProjection(ctx, input.TripID, s.clock()); err != nil {
		return storage.Expense{}, fmt.Errorf("recompute projection: %w", err)
	}
	return expense, nil
}

// ListExpenses returns the expenses for a trip the actor may read.
func (s *Service) ListExpenses(ctx context.Context, actorID, tripID string) ([]storage.Expense, error) {
	if _, _, err := s.loadTripForRead(ctx, tripID, policy.Principal{UserID: actorID}); err != nil {
		return nil, err
	}
	return s.stores.Expenses.ListExpensesByTrip(ctx, tripID)
}

// RecomputeProjections rebuilds the derived counters for one trip from its
// membership and expense rows. Intended for operator tooling.
func (s *Service) RecomputeProjections(ctx context.Context, tripID string) (storage.TripProjection, error) {
	return s.stores.Projections.RecomputeTripProjection(ctx, tripID, s.clock())
}
