package service

import (
	"context"
	"time"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

// fakeTripStore is a test double for storage.TripStore.
type fakeTripStore struct {
	trips   map[string]trip.Trip
	members *fakeMemberStore
	putErr  error
	getErr  error
}

func newFakeTripStore(members *fakeMemberStore) *fakeTripStore {
	return &fakeTripStore{
		trips:   make(map[string]trip.Trip),
		members: members,
	}
}

func (s *fakeTripStore) CreateTripWithOwner(ctx context.Context, t trip.Trip, owner member.Member) error {
	if s.putErr != nil {
		return s.putErr
	}
	if _, ok := s.trips[t.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.trips[t.ID] = t
	if s.members != nil {
		return s.members.PutMember(ctx, owner)
	}
	return nil
}

func (s *fakeTripStore) PutTrip(_ context.Context, t trip.Trip) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.trips[t.ID] = t
	return nil
}

func (s *fakeTripStore) GetTrip(_ context.Context, id string) (trip.Trip, error) {
	if s.getErr != nil {
		return trip.Trip{}, s.getErr
	}
	t, ok := s.trips[id]
	if !ok {
		return trip.Trip{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *fakeTripStore) ListTripsByUser(_ context.Context, userID string, _ int, _ string) (storage.TripPage, error) {
	page := storage.TripPage{}
	for _, t := range s.trips {
		if t.IsDeleted || s.members == nil {
			continue
		}
		if _, ok := s.members.live(t.ID, userID); ok {
			page.Trips = append(page.Trips, t)
		}
	}
	return page, nil
}

func (s *fakeTripStore) ListPublicTrips(_ context.Context, _ int, _ string) (storage.TripPage, error) {
	page := storage.TripPage{}
	for _, t := range s.trips {
		if t.IsPublic && !t.IsDeleted {
			page.Trips = append(page.Trips, t)
		}
	}
	return page, nil
}

// fakeMemberStore is a test double for storage.MemberStore. It models the
// live-slot uniqueness the sqlite partial index enforces.
type fakeMemberStore struct {
	members map[string]member.Member // member ID -> row
	putErr  error
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[string]member.Member)}
}

func (s *fakeMemberStore) live(tripID, userID string) (member.Member, bool) {
	for _, m := range s.members {
		if m.TripID == tripID && m.UserID == userID && !m.IsDeleted {
			return m, true
		}
	}
	return member.Member{}, false
}

func (s *fakeMemberStore) PutMember(_ context.Context, m member.Member) error {
	if s.putErr != nil {
		return s.putErr
	}
	if !m.IsDeleted {
		if existing, ok := s.live(m.TripID, m.UserID); ok && existing.ID != m.ID {
			return storage.ErrAlreadyExists
		}
	}
	s.members[m.ID] = m
	return nil
}

func (s *fakeMemberStore) GetMember(_ context.Context, tripID, memberID string) (member.Member, error) {
	m, ok := s.members[memberID]
	if !ok || m.TripID != tripID {
		return member.Member{}, storage.ErrNotFound
	}
	return m, nil
}

func (s *fakeMemberStore) GetMemberByTripAndUser(_ context.Context, tripID, userID string) (member.Member, error) {
	if m, ok := s.live(tripID, userID); ok {
		return m, nil
	}
	return member.Member{}, storage.ErrNotFound
}

func (s *fakeMemberStore) ListMembersByTrip(_ context.Context, tripID string) ([]member.Member, error) {
	var out []member.Member
	for _, m := range s.members {
		if m.TripID == tripID && !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMemberStore) ListActiveMembers(_ context.Context, tripID string) ([]member.Member, error) {
	var out []member.Member
	for _, m := range s.members {
		if m.TripID == tripID && !m.IsDeleted && m.Status == member.StatusAccepted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMemberStore) CountActiveAdmins(_ context.Context, tripID, excludeUserID string) (int, error) {
	count := 0
	for _, m := range s.members {
		if m.TripID == tripID && !m.IsDeleted && m.Status == member.StatusAccepted &&
			m.Role == member.RoleAdmin && m.UserID != excludeUserID {
			count++
		}
	}
	return count, nil
}

// fakeUserDirectory is a test double for storage.UserDirectory.
type fakeUserDirectory struct {
	users map[string]storage.User
}

func newFakeUserDirectory(ids ...string) *fakeUserDirectory {
	d := &fakeUserDirectory{users: make(map[string]storage.User)}
	for _, id := range ids {
		d.users[id] = storage.User{ID: id, DisplayName: id}
	}
	return d
}

func (d *fakeUserDirectory) PutUser(_ context.Context, u storage.User) error {
	d.users[u.ID] = u
	return nil
}

func (d *fakeUserDirectory) GetUser(_ context.Context, id string) (storage.User, error) {
	u, ok := d.users[id]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (d *fakeUserDirectory) UserExists(_ context.Context, id string) (bool, error) {
	_, ok := d.users[id]
	return ok, nil
}

// fakeExpenseStore is a test double for storage.ExpenseStore.
type fakeExpenseStore struct {
	expenses map[string]storage.Expense
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{expenses: make(map[string]storage.Expense)}
}

func (s *fakeExpenseStore) PutExpense(_ context.Context, e storage.Expense) error {
	s.expenses[e.ID] = e
	return nil
}

func (s *fakeExpenseStore) ListExpensesByTrip(_ context.Context, tripID string) ([]storage.Expense, error) {
	var out []storage.Expense
	for _, e := range s.expenses {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeProjectionStore records recompute calls per trip.
type fakeProjectionStore struct {
	recomputes map[string]int
}

func newFakeProjectionStore() *fakeProjectionStore {
	return &fakeProjectionStore{recomputes: make(map[string]int)}
}

func (s *fakeProjectionStore) RecomputeTripProjection(_ context.Context, tripID string, now time.Time) (storage.TripProjection, error) {
	s.recomputes[tripID]++
	return storage.TripProjection{TripID: tripID, UpdatedAt: now}, nil
}

// fakeEventStore assigns per-trip sequence numbers in append order.
type fakeEventStore struct {
	events map[string][]event.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string][]event.Event)}
}

func (s *fakeEventStore) AppendEvent(_ context.Context, evt event.Event) (event.Event, error) {
	evt.Seq = uint64(len(s.events[evt.TripID]) + 1)
	s.events[evt.TripID] = append(s.events[evt.TripID], evt)
	return evt, nil
}

func (s *fakeEventStore) ListEvents(_ context.Context, tripID string, afterSeq uint64, limit int) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range s.events[tripID] {
		if evt.Seq > afterSeq {
			out = append(out, evt)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeEventStore) GetLatestEventSeq(_ context.Context, tripID string) (uint64, error) {
	return uint64(len(s.events[tripID])), nil
}

func (s *fakeEventStore) types(tripID string) []event.Type {
	var out []event.Type
	for _, evt := range s.events[tripID] {
		out = append(out, evt.Type)
	}
	return out
}
