package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "wanderlist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func fixedClock() func() time.Time {
	fixedTime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return fixedTime }
}

func testTrip(t *testing.T, ownerID string) (trip.Trip, member.Member) {
	t.Helper()
	created, err := trip.CreateTrip(trip.CreateTripInput{
		Title:     "Lisbon Getaway",
		StartDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC),
		OwnerID:   ownerID,
		Currency:  "EUR",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	owner, err := member.NewOwner(created.ID, ownerID, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new owner: %v", err)
	}
	return created, owner
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateTripWithOwnerRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")

	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}

	got, err := store.GetTrip(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if got.Title != created.Title {
		t.Fatalf("title = %q, want %q", got.Title, created.Title)
	}
	if got.Status != trip.StatusPlanning {
		t.Fatalf("status = %v, want planning", got.Status)
	}
	if !got.StartDate.Equal(created.StartDate) {
		t.Fatalf("start date = %v, want %v", got.StartDate, created.StartDate)
	}

	gotOwner, err := store.GetMemberByTripAndUser(context.Background(), created.ID, "owner-1")
	if err != nil {
		t.Fatalf("get owner membership: %v", err)
	}
	if gotOwner.Role != member.RoleOwner || gotOwner.Status != member.StatusAccepted {
		t.Fatalf("owner row = role %v status %v", gotOwner.Role, gotOwner.Status)
	}
	if gotOwner.JoinedAt == nil {
		t.Fatal("expected owner joined_at to be set")
	}
}

func TestCreateTripWithOwnerDuplicateID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")

	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}
	err := store.CreateTripWithOwner(context.Background(), created, owner)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetTripNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetTrip(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestLiveMembershipSlotIsUnique(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")
	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}

	invited, err := member.NewInvited(member.NewInvitedInput{
		TripID: created.ID, UserID: "user-2", Role: member.RoleMember, InvitedBy: "owner-1",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new invited: %v", err)
	}
	if err := store.PutMember(context.Background(), invited); err != nil {
		t.Fatalf("put invited member: %v", err)
	}

	// A second live row for the same (trip, user) pair hits the partial
	// unique index.
	duplicate, err := member.NewInvited(member.NewInvitedInput{
		TripID: created.ID, UserID: "user-2", Role: member.RoleViewer, InvitedBy: "owner-1",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new duplicate: %v", err)
	}
	err = store.PutMember(context.Background(), duplicate)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate member error = %v, want %v", err, storage.ErrAlreadyExists)
	}

	// Soft-deleting the terminal row frees the slot for a fresh invitation.
	if err := invited.RejectInvitation(fixedClock()); err != nil {
		t.Fatalf("reject invitation: %v", err)
	}
	invited.SoftDelete(fixedClock())
	if err := store.PutMember(context.Background(), invited); err != nil {
		t.Fatalf("put rejected member: %v", err)
	}
	if err := store.PutMember(context.Background(), duplicate); err != nil {
		t.Fatalf("re-invite after rejection: %v", err)
	}

	// The soft-deleted row is retained but invisible to the live lookup.
	live, err := store.GetMemberByTripAndUser(context.Background(), created.ID, "user-2")
	if err != nil {
		t.Fatalf("get live membership: %v", err)
	}
	if live.ID != duplicate.ID {
		t.Fatalf("live row = %q, want %q", live.ID, duplicate.ID)
	}
	audit, err := store.GetMember(context.Background(), created.ID, invited.ID)
	if err != nil {
		t.Fatalf("get audit row: %v", err)
	}
	if !audit.IsDeleted || audit.Status != member.StatusRejected {
		t.Fatalf("audit row = %+v", audit)
	}
}

func TestListActiveMembersAndCountAdmins(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")
	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}

	admin, err := member.NewInvited(member.NewInvitedInput{
		TripID: created.ID, UserID: "user-2", Role: member.RoleAdmin, InvitedBy: "owner-1",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new admin: %v", err)
	}
	if err := admin.AcceptInvitation(fixedClock()); err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if err := store.PutMember(context.Background(), admin); err != nil {
		t.Fatalf("put admin: %v", err)
	}

	pending, err := member.NewInvited(member.NewInvitedInput{
		TripID: created.ID, UserID: "user-3", Role: member.RoleMember, InvitedBy: "owner-1",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new pending: %v", err)
	}
	if err := store.PutMember(context.Background(), pending); err != nil {
		t.Fatalf("put pending: %v", err)
	}

	active, err := store.ListActiveMembers(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list active members: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active members = %d, want 2 (owner + admin)", len(active))
	}

	all, err := store.ListMembersByTrip(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all members = %d, want 3", len(all))
	}

	count, err := store.CountActiveAdmins(context.Background(), created.ID, "owner-1")
	if err != nil {
		t.Fatalf("count active admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("active admins = %d, want 1", count)
	}

	// Excluding the admin leaves none; the owner row does not count.
	count, err = store.CountActiveAdmins(context.Background(), created.ID, "user-2")
	if err != nil {
		t.Fatalf("count active admins: %v", err)
	}
	if count != 0 {
		t.Fatalf("active admins = %d, want 0", count)
	}
}

func TestListTripsByUserPaging(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for i := 0; i < 3; i++ {
		created, owner := testTrip(t, "owner-1")
		if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
			t.Fatalf("create trip %d: %v", i, err)
		}
	}

	page, err := store.ListTripsByUser(context.Background(), "owner-1", 2, "")
	if err != nil {
		t.Fatalf("list trips: %v", err)
	}
	if len(page.Trips) != 2 {
		t.Fatalf("first page = %d trips, want 2", len(page.Trips))
	}
	if page.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	rest, err := store.ListTripsByUser(context.Background(), "owner-1", 2, page.NextPageToken)
	if err != nil {
		t.Fatalf("list trips second page: %v", err)
	}
	if len(rest.Trips) != 1 {
		t.Fatalf("second page = %d trips, want 1", len(rest.Trips))
	}
	if rest.NextPageToken != "" {
		t.Fatalf("unexpected next page token %q", rest.NextPageToken)
	}
}

func TestListPublicTrips(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	public, owner := testTrip(t, "owner-1")
	public.IsPublic = true
	if err := store.CreateTripWithOwner(context.Background(), public, owner); err != nil {
		t.Fatalf("create public trip: %v", err)
	}
	private, privateOwner := testTrip(t, "owner-2")
	if err := store.CreateTripWithOwner(context.Background(), private, privateOwner); err != nil {
		t.Fatalf("create private trip: %v", err)
	}

	page, err := store.ListPublicTrips(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("list public trips: %v", err)
	}
	if len(page.Trips) != 1 {
		t.Fatalf("public trips = %d, want 1", len(page.Trips))
	}
	if page.Trips[0].ID != public.ID {
		t.Fatalf("public trip = %q, want %q", page.Trips[0].ID, public.ID)
	}
}

func TestUserDirectory(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	exists, err := store.UserExists(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("user exists: %v", err)
	}
	if exists {
		t.Fatal("expected user-1 to be absent")
	}

	u := storage.User{ID: "user-1", DisplayName: "Alice", Email: "alice@example.com", CreatedAt: now, UpdatedAt: now}
	if err := store.PutUser(context.Background(), u); err != nil {
		t.Fatalf("put user: %v", err)
	}

	exists, err = store.UserExists(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("user exists: %v", err)
	}
	if !exists {
		t.Fatal("expected user-1 to exist")
	}

	got, err := store.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.DisplayName != "Alice" {
		t.Fatalf("display name = %q, want Alice", got.DisplayName)
	}
}

func TestAppendEventAssignsSequence(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	first, err := store.AppendEvent(context.Background(), event.Event{
		TripID:      "trip-1",
		Type:        event.TypeTripCreated,
		ActorType:   event.ActorTypeUser,
		ActorID:     "owner-1",
		EntityType:  "trip",
		EntityID:    "trip-1",
		PayloadJSON: []byte(`{"title":"Lisbon Getaway"}`),
	})
	if err != nil {
		t.Fatalf("append first event: %v", err)
	}
	if first.Seq != 1 {
		t.Fatalf("first seq = %d, want 1", first.Seq)
	}

	second, err := store.AppendEvent(context.Background(), event.Event{
		TripID:    "trip-1",
		Type:      event.TypeMemberInvited,
		ActorType: event.ActorTypeUser,
		ActorID:   "owner-1",
	})
	if err != nil {
		t.Fatalf("append second event: %v", err)
	}
	if second.Seq != 2 {
		t.Fatalf("second seq = %d, want 2", second.Seq)
	}

	// Sequences are scoped per trip.
	other, err := store.AppendEvent(context.Background(), event.Event{
		TripID:    "trip-2",
		Type:      event.TypeTripCreated,
		ActorType: event.ActorTypeSystem,
	})
	if err != nil {
		t.Fatalf("append other trip event: %v", err)
	}
	if other.Seq != 1 {
		t.Fatalf("other trip seq = %d, want 1", other.Seq)
	}

	events, err := store.ListEvents(context.Background(), "trip-1", 0, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != event.TypeTripCreated || events[1].Type != event.TypeMemberInvited {
		t.Fatalf("event order = %v, %v", events[0].Type, events[1].Type)
	}

	seq, err := store.GetLatestEventSeq(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if seq != 2 {
		t.Fatalf("latest seq = %d, want 2", seq)
	}
}

func TestRecomputeTripProjection(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")
	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}

	accepted, err := member.NewInvited(member.NewInvitedInput{
		TripID: created.ID, UserID: "user-2", Role: member.RoleMember, InvitedBy: "owner-1",
	}, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new invited: %v", err)
	}
	if err := accepted.AcceptInvitation(fixedClock()); err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if err := store.PutMember(context.Background(), accepted); err != nil {
		t.Fatalf("put member: %v", err)
	}

	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	expenses := []storage.Expense{
		{ID: "exp-1", TripID: created.ID, MemberID: accepted.ID, Description: "hotel", Amount: 42000, Currency: "EUR", IncurredAt: now, CreatedAt: now},
		{ID: "exp-2", TripID: created.ID, MemberID: owner.ID, Description: "flights", Amount: 18050, Currency: "EUR", IncurredAt: now, CreatedAt: now},
	}
	for _, e := range expenses {
		if err := store.PutExpense(context.Background(), e); err != nil {
			t.Fatalf("put expense %s: %v", e.ID, err)
		}
	}

	proj, err := store.RecomputeTripProjection(context.Background(), created.ID, now)
	if err != nil {
		t.Fatalf("recompute projection: %v", err)
	}
	if proj.MemberCount != 2 {
		t.Fatalf("member count = %d, want 2", proj.MemberCount)
	}
	if proj.TotalExpenses != 60050 {
		t.Fatalf("total expenses = %d, want 60050", proj.TotalExpenses)
	}

	got, err := store.GetTrip(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if got.MemberCount != 2 || got.TotalExpenses != 60050 {
		t.Fatalf("trip counters = %d members, %d spent", got.MemberCount, got.TotalExpenses)
	}
}

func TestRecomputeTripProjectionMissingTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.RecomputeTripProjection(context.Background(), "missing", time.Now())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestGetTripStatistics(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created, owner := testTrip(t, "owner-1")
	if err := store.CreateTripWithOwner(context.Background(), created, owner); err != nil {
		t.Fatalf("create trip with owner: %v", err)
	}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := store.PutUser(context.Background(), storage.User{ID: "owner-1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("put user: %v", err)
	}

	stats, err := store.GetTripStatistics(context.Background(), nil)
	if err != nil {
		t.Fatalf("get statistics: %v", err)
	}
	if stats.TripCount != 1 || stats.MemberCount != 1 || stats.UserCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	future := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stats, err = store.GetTripStatistics(context.Background(), &future)
	if err != nil {
		t.Fatalf("get statistics since: %v", err)
	}
	if stats.TripCount != 0 {
		t.Fatalf("trips since future = %d, want 0", stats.TripCount)
	}
}
