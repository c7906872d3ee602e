package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

const memberColumns = `id, trip_id, user_id, role, status, invited_by,
	invited_at, joined_at, left_at, notes, is_deleted, created_at, updated_at`

// PutMember upserts a membership row. The partial unique index on live
// (trip, user) pairs turns concurrent duplicate invitations into
// ErrAlreadyExists at the database boundary.
func (s *Store) PutMember(ctx context.Context, m member.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("member id is required")
	}
	if strings.TrimSpace(m.TripID) == "" {
		return fmt.Errorf("trip id is required")
	}
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	if err := execPutMember(ctx, s.sqlDB, m); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put member: %w", err)
	}
	return nil
}

// GetMember returns one membership row by trip and member ID, including
// soft-deleted rows for audit views.
func (s *Store) GetMember(ctx context.Context, tripID, memberID string) (member.Member, error) {
	if err := ctx.Err(); err != nil {
		return member.Member{}, err
	}
	if s == nil || s.sqlDB == nil {
		return member.Member{}, fmt.Errorf("storage is not configured")
	}
	tripID = strings.TrimSpace(tripID)
	memberID = strings.TrimSpace(memberID)
	if tripID == "" || memberID == "" {
		return member.Member{}, fmt.Errorf("trip id and member id are required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM trip_members WHERE trip_id = ? AND id = ?`,
		tripID, memberID)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, storage.ErrNotFound
		}
		return member.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetMemberByTripAndUser returns the live membership row for a user on a
// trip. Soft-deleted rows are invisible here so the caller sees the same
// slot the unique index guards.
func (s *Store) GetMemberByTripAndUser(ctx context.Context, tripID, userID string) (member.Member, error) {
	if err := ctx.Err(); err != nil {
		return member.Member{}, err
	}
	if s == nil || s.sqlDB == nil {
		return member.Member{}, fmt.Errorf("storage is not configured")
	}
	tripID = strings.TrimSpace(tripID)
	userID = strings.TrimSpace(userID)
	if tripID == "" || userID == "" {
		return member.Member{}, fmt.Errorf("trip id and user id are required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+memberColumns+`
		   FROM trip_members
		  WHERE trip_id = ? AND user_id = ? AND is_deleted = 0`,
		tripID, userID)

	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, storage.ErrNotFound
		}
		return member.Member{}, fmt.Errorf("get member by trip and user: %w", err)
	}
	return m, nil
}

// ListMembersByTrip returns all live membership rows for a trip.
func (s *Store) ListMembersByTrip(ctx context.Context, tripID string) ([]member.Member, error) {
	return s.listMembers(ctx, tripID, false)
}

// ListActiveMembers returns accepted, live membership rows for a trip.
func (s *Store) ListActiveMembers(ctx context.Context, tripID string) ([]member.Member, error) {
	return s.listMembers(ctx, tripID, true)
}

func (s *Store) listMembers(ctx context.Context, tripID string, acceptedOnly bool) ([]member.Member, error) {
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

	query := `SELECT ` + memberColumns + `
		   FROM trip_members
		  WHERE trip_id = ? AND is_deleted = 0`
	args := []any{tripID}
	if acceptedOnly {
		query += ` AND status = ?`
		args = append(args, int(member.StatusAccepted))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}
	return members, nil
}

// CountActiveAdmins counts accepted admin members on a trip, excluding the
// given user. The owner role does not count toward the result.
func (s *Store) CountActiveAdmins(ctx context.Context, tripID, excludeUserID string) (int, error) {
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

	var count int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*)
		   FROM trip_members
		  WHERE trip_id = ?
		    AND user_id != ?
		    AND role = ?
		    AND status = ?
		    AND is_deleted = 0`,
		tripID, excludeUserID, int(member.RoleAdmin), int(member.StatusAccepted),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active admins: %w", err)
	}
	return count, nil
}

func execPutMember(ctx context.Context, db execContexter, m member.Member) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO trip_members (`+memberColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			role = excluded.role,
			status = excluded.status,
			invited_at = excluded.invited_at,
			joined_at = excluded.joined_at,
			left_at = excluded.left_at,
			notes = excluded.notes,
			is_deleted = excluded.is_deleted,
			updated_at = excluded.updated_at`,
		m.ID,
		m.TripID,
		m.UserID,
		int(m.Role),
		int(m.Status),
		m.InvitedBy,
		toNullMillis(m.InvitedAt),
		toNullMillis(m.JoinedAt),
		toNullMillis(m.LeftAt),
		m.Notes,
		m.IsDeleted,
		toMillis(m.CreatedAt),
		toMillis(m.UpdatedAt),
	)
	return err
}

func scanMember(row rowScanner) (member.Member, error) {
	var m member.Member
	var role, status int
	var invitedAt, joinedAt, leftAt sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(
		&m.ID,
		&m.TripID,
		&m.UserID,
		&role,
		&status,
		&m.InvitedBy,
		&invitedAt,
		&joinedAt,
		&leftAt,
		&m.Notes,
		&m.IsDeleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return member.Member{}, err
	}
	m.Role = member.Role(role)
	m.Status = member.Status(status)
	m.InvitedAt = fromNullMillis(invitedAt)
	m.JoinedAt = fromNullMillis(joinedAt)
	m.LeftAt = fromNullMillis(leftAt)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return m, nil
}

var _ storage.MemberStore = (*Store)(nil)
