package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

// PutExpense upserts an expense record.
func (s *Store) PutExpense(ctx context.Context, e storage.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("expense id is required")
	}
	if strings.TrimSpace(e.TripID) == "" {
		return fmt.Errorf("trip id is required")
	}
	if e.Amount < 0 {
		return fmt.Errorf("expense amount must not be negative")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO expenses (
			id, trip_id, member_id, description, amount, currency,
			incurred_at, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount = excluded.amount,
			currency = excluded.currency,
			incurred_at = excluded.incurred_at`,
		e.ID,
		e.TripID,
		e.MemberID,
		e.Description,
		e.Amount,
		e.Currency,
		toMillis(e.IncurredAt),
		toMillis(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put expense: %w", err)
	}
	return nil
}

// ListExpensesByTrip returns all expenses for a trip ordered by time.
func (s *Store) ListExpensesByTrip(ctx context.Context, tripID string) ([]storage.Expense, error) {
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

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, trip_id, member_id, description, amount, currency,
		        incurred_at, created_at
		   FROM expenses
		  WHERE trip_id = ?
		  ORDER BY incurred_at ASC, id ASC`,
		tripID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []storage.Expense
	for rows.Next() {
		var e storage.Expense
		var incurredAt, createdAt int64
		if err := rows.Scan(
			&e.ID,
			&e.TripID,
			&e.MemberID,
			&e.Description,
			&e.Amount,
			&e.Currency,
			&incurredAt,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		e.IncurredAt = fromMillis(incurredAt)
		e.CreatedAt = fromMillis(createdAt)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}
	return expenses, nil
}

// RecomputeTripProjection rebuilds member_count and total_expenses for one
// trip from the membership and expense tables, writing the counters back to
// the trip row in one transaction.
func (s *Store) RecomputeTripProjection(ctx context.Context, tripID string, now time.Time) (storage.TripProjection, error) {
	if err := ctx.Err(); err != nil {
		return storage.TripProjection{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TripProjection{}, fmt.Errorf("storage is not configured")
	}
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return storage.TripProjection{}, fmt.Errorf("trip id is required")
	}
	if now.IsZero() {
		now = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.TripProjection{}, fmt.Errorf("begin recompute tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	proj := storage.TripProjection{TripID: tripID, UpdatedAt: now.UTC()}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*)
		   FROM trip_members
		  WHERE trip_id = ? AND status = ? AND is_deleted = 0`,
		tripID, int(member.StatusAccepted)).Scan(&proj.MemberCount)
	if err != nil {
		return storage.TripProjection{}, fmt.Errorf("count members: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE trip_id = ?`,
		tripID).Scan(&proj.TotalExpenses)
	if err != nil {
		return storage.TripProjection{}, fmt.Errorf("sum expenses: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE trips
		    SET member_count = ?, total_expenses = ?, updated_at = ?
		  WHERE id = ?`,
		proj.MemberCount, proj.TotalExpenses, toMillis(now), tripID)
	if err != nil {
		return storage.TripProjection{}, fmt.Errorf("update trip counters: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.TripProjection{}, fmt.Errorf("update trip counters: %w", err)
	}
	if affected == 0 {
		return storage.TripProjection{}, storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return storage.TripProjection{}, fmt.Errorf("commit recompute tx: %w", err)
	}
	return proj, nil
}

// GetTripStatistics returns aggregate counts for operator tooling.
// When since is nil, counts are for all time.
func (s *Store) GetTripStatistics(ctx context.Context, since *time.Time) (storage.TripStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.TripStatistics{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TripStatistics{}, fmt.Errorf("storage is not configured")
	}

	var cutoff any
	if since != nil {
		cutoff = toMillis(*since)
	}

	var stats storage.TripStatistics
	queries := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM trips WHERE (?1 IS NULL OR created_at >= ?1)`, &stats.TripCount},
		{`SELECT COUNT(*) FROM trip_members WHERE (?1 IS NULL OR created_at >= ?1)`, &stats.MemberCount},
		{`SELECT COUNT(*) FROM users WHERE (?1 IS NULL OR created_at >= ?1)`, &stats.UserCount},
		{`SELECT COUNT(*) FROM expenses WHERE (?1 IS NULL OR created_at >= ?1)`, &stats.ExpenseCount},
	}
	for _, q := range queries {
		if err := s.sqlDB.QueryRowContext(ctx, q.query, cutoff).Scan(q.dest); err != nil {
			return storage.TripStatistics{}, fmt.Errorf("trip statistics: %w", err)
		}
	}
	return stats, nil
}

var (
	_ storage.ExpenseStore    = (*Store)(nil)
	_ storage.ProjectionStore = (*Store)(nil)
	_ storage.StatisticsStore = (*Store)(nil)
	_ storage.EventStore      = (*Store)(nil)
)
