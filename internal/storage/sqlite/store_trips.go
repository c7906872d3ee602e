package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

const tripColumns = `id, title, destination, start_date, end_date, owner_id, category,
	status, is_group_trip, is_public, budget_limit, currency,
	member_count, total_expenses, is_deleted, created_at, updated_at`

// CreateTripWithOwner inserts a trip and its owner membership atomically.
func (s *Store) CreateTripWithOwner(ctx context.Context, t trip.Trip, owner member.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("trip id is required")
	}
	if owner.TripID != t.ID {
		return fmt.Errorf("owner membership trip id mismatch")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create trip tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := execInsertTrip(ctx, tx, t); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	if err := execPutMember(ctx, tx, owner); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create trip tx: %w", err)
	}
	return nil
}

// PutTrip upserts a trip record.
func (s *Store) PutTrip(ctx context.Context, t trip.Trip) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("trip id is required")
	}
	if err := execInsertOrUpdateTrip(ctx, s.sqlDB, t); err != nil {
		return fmt.Errorf("put trip: %w", err)
	}
	return nil
}

// GetTrip returns one trip by ID, including soft-deleted trips.
func (s *Store) GetTrip(ctx context.Context, id string) (trip.Trip, error) {
	if err := ctx.Err(); err != nil {
		return trip.Trip{}, err
	}
	if s == nil || s.sqlDB == nil {
		return trip.Trip{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return trip.Trip{}, fmt.Errorf("trip id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)

	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.Trip{}, storage.ErrNotFound
		}
		return trip.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// ListTripsByUser returns a page of non-deleted trips where the user holds a
// live membership row, ordered by trip ID.
func (s *Store) ListTripsByUser(ctx context.Context, userID string, pageSize int, pageToken string) (storage.TripPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TripPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TripPage{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.TripPage{}, fmt.Errorf("user id is required")
	}
	if pageSize <= 0 {
		return storage.TripPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+prefixedTripColumns("t")+`
		   FROM trips t
		   JOIN trip_members m ON m.trip_id = t.id
		  WHERE m.user_id = ?
		    AND m.is_deleted = 0
		    AND t.is_deleted = 0
		    AND t.id > ?
		  ORDER BY t.id ASC
		  LIMIT ?`,
		userID, pageToken, pageSize+1)
	if err != nil {
		return storage.TripPage{}, fmt.Errorf("list trips by user: %w", err)
	}
	defer rows.Close()

	return collectTripPage(rows, pageSize)
}

// ListPublicTrips returns a page of public, non-deleted trips ordered by ID.
func (s *Store) ListPublicTrips(ctx context.Context, pageSize int, pageToken string) (storage.TripPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TripPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TripPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.TripPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+tripColumns+`
		   FROM trips
		  WHERE is_public = 1
		    AND is_deleted = 0
		    AND id > ?
		  ORDER BY id ASC
		  LIMIT ?`,
		pageToken, pageSize+1)
	if err != nil {
		return storage.TripPage{}, fmt.Errorf("list public trips: %w", err)
	}
	defer rows.Close()

	return collectTripPage(rows, pageSize)
}

type execContexter interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execInsertTrip(ctx context.Context, db execContexter, t trip.Trip) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO trips (`+tripColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tripArgs(t)...)
	return err
}

func execInsertOrUpdateTrip(ctx context.Context, db execContexter, t trip.Trip) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO trips (`+tripColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			destination = excluded.destination,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			category = excluded.category,
			status = excluded.status,
			is_group_trip = excluded.is_group_trip,
			is_public = excluded.is_public,
			budget_limit = excluded.budget_limit,
			currency = excluded.currency,
			member_count = excluded.member_count,
			total_expenses = excluded.total_expenses,
			is_deleted = excluded.is_deleted,
			updated_at = excluded.updated_at`,
		tripArgs(t)...)
	return err
}

func tripArgs(t trip.Trip) []any {
	return []any{
		t.ID,
		t.Title,
		t.Destination,
		toMillis(t.StartDate),
		toMillis(t.EndDate),
		t.OwnerID,
		t.Category,
		int(t.Status),
		t.IsGroupTrip,
		t.IsPublic,
		t.BudgetLimit,
		t.Currency,
		t.MemberCount,
		t.TotalExpenses,
		t.IsDeleted,
		toMillis(t.CreatedAt),
		toMillis(t.UpdatedAt),
	}
}

func prefixedTripColumns(alias string) string {
	parts := strings.Split(tripColumns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (trip.Trip, error) {
	var t trip.Trip
	var startDate, endDate, createdAt, updatedAt int64
	var status int
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Destination,
		&startDate,
		&endDate,
		&t.OwnerID,
		&t.Category,
		&status,
		&t.IsGroupTrip,
		&t.IsPublic,
		&t.BudgetLimit,
		&t.Currency,
		&t.MemberCount,
		&t.TotalExpenses,
		&t.IsDeleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return trip.Trip{}, err
	}
	t.StartDate = fromMillis(startDate)
	t.EndDate = fromMillis(endDate)
	t.Status = trip.Status(status)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

func collectTripPage(rows *sql.Rows, pageSize int) (storage.TripPage, error) {
	page := storage.TripPage{
		Trips: make([]trip.Trip, 0, pageSize),
	}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return storage.TripPage{}, fmt.Errorf("scan trip row: %w", err)
		}
		page.Trips = append(page.Trips, t)
	}
	if err := rows.Err(); err != nil {
		return storage.TripPage{}, fmt.Errorf("iterate trip rows: %w", err)
	}
	if len(page.Trips) > pageSize {
		page.NextPageToken = page.Trips[pageSize-1].ID
		page.Trips = page.Trips[:pageSize]
	}
	return page, nil
}

var _ storage.TripStore = (*Store)(nil)
