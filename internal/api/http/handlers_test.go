package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wanderlist/wanderlist/internal/service"
	"github.com/wanderlist/wanderlist/internal/storage/sqlite"
	"github.com/wanderlist/wanderlist/internal/trip/event"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "wanderlist.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	n := 0
	idGen := func() (string, error) {
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
	clock := func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	svc := service.New(service.Stores{
		Trips:       store,
		Members:     store,
		Users:       store,
		Expenses:    store,
		Projections: store,
		Events:      store,
	}, event.NewEmitter(store), service.WithClock(clock), service.WithIDGenerator(idGen))

	return NewHandler(svc, Config{})
}

func doJSON(t *testing.T, h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(principalHeader, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, h http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/users", "", fmt.Sprintf(`{"id":%q,"display_name":%q}`, id, id))
	if rec.Code != http.StatusOK {
		t.Fatalf("register user %s: status %d body %s", id, rec.Code, rec.Body.String())
	}
}

func createTrip(t *testing.T, h http.Handler, ownerID string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/trips", ownerID,
		`{"title":"Lisbon in June","start_date":"2026-06-01","end_date":"2026-06-10","currency":"EUR"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trip: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)
	return created.ID
}

func TestCreateTripEndpoint(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")

	rec := doJSON(t, h, http.MethodPost, "/trips", "owner-1",
		`{"title":"Lisbon in June","start_date":"2026-06-01","end_date":"2026-06-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var view struct {
		Status  string `json:"status"`
		OwnerID string `json:"owner_id"`
		CanEdit bool   `json:"can_edit"`
	}
	decodeBody(t, rec, &view)
	if view.Status != "planning" || view.OwnerID != "owner-1" || !view.CanEdit {
		t.Fatalf("view = %+v, want planning/owner-1/can_edit", view)
	}
}

func TestCreateTripRequiresPrincipal(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/trips", "",
		`{"title":"Nope","start_date":"2026-06-01","end_date":"2026-06-10"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestInviteAndAcceptOverHTTP(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")
	registerUser(t, h, "user-2")
	tripID := createTrip(t, h, "owner-1")

	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/members", "owner-1",
		`{"user_id":"user-2","role":"member"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite: status %d body %s", rec.Code, rec.Body.String())
	}
	var invited struct {
		Member struct {
			Status string `json:"status"`
		} `json:"member"`
	}
	decodeBody(t, rec, &invited)
	if invited.Member.Status != "pending" {
		t.Fatalf("invited status = %q, want pending", invited.Member.Status)
	}

	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/members/accept", "user-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+tripID+"/members", "owner-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list members: status %d body %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Members []struct {
			UserID string `json:"user_id"`
			Status string `json:"status"`
		} `json:"members"`
	}
	decodeBody(t, rec, &list)
	if len(list.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(list.Members))
	}
}

func TestDuplicateInviteMapsToUnprocessable(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")
	registerUser(t, h, "user-2")
	tripID := createTrip(t, h, "owner-1")

	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/members", "owner-1",
		`{"user_id":"user-2","role":"member"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first invite: status %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/members", "owner-1",
		`{"user_id":"user-2","role":"viewer"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate invite: status %d, want 422; body %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "MEMBER_ALREADY_MEMBER" {
		t.Fatalf("error code = %q, want MEMBER_ALREADY_MEMBER", resp.Error.Code)
	}
}

func TestPrivateTripDeniesStrangers(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")
	registerUser(t, h, "user-2")
	tripID := createTrip(t, h, "owner-1")

	rec := doJSON(t, h, http.MethodGet, "/trips/"+tripID, "user-2", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger read: status %d, want 403; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/unknown-trip", "owner-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown trip: status %d, want 404", rec.Code)
	}
}

func TestListTripEventsPagination(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")
	registerUser(t, h, "user-2")
	tripID := createTrip(t, h, "owner-1")

	// trip.created plus the invitation pair gives three journal entries.
	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/members", "owner-1",
		`{"user_id":"user-2","role":"member"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+tripID+"/events?page_size=2", "owner-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("events page 1: status %d body %s", rec.Code, rec.Body.String())
	}
	var page1 struct {
		Events []struct {
			Seq  uint64 `json:"seq"`
			Type string `json:"type"`
		} `json:"events"`
		NextPageToken string `json:"next_page_token"`
	}
	decodeBody(t, rec, &page1)
	if len(page1.Events) != 2 || page1.NextPageToken == "" {
		t.Fatalf("page 1 = %d events, token %q; want 2 events and a token", len(page1.Events), page1.NextPageToken)
	}
	if page1.Events[0].Type != "trip.created" {
		t.Fatalf("first event = %q, want trip.created", page1.Events[0].Type)
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+tripID+"/events?page_size=2&page_token="+page1.NextPageToken, "owner-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("events page 2: status %d body %s", rec.Code, rec.Body.String())
	}
	var page2 struct {
		Events []struct {
			Seq uint64 `json:"seq"`
		} `json:"events"`
	}
	decodeBody(t, rec, &page2)
	if len(page2.Events) != 1 || page2.Events[0].Seq != 3 {
		t.Fatalf("page 2 = %+v, want the single seq-3 event", page2.Events)
	}
}

func TestRecordExpenseOverHTTP(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	registerUser(t, h, "owner-1")
	tripID := createTrip(t, h, "owner-1")

	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/expenses", "owner-1",
		`{"description":"ferry tickets","amount":4200,"currency":"eur"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record expense: status %d body %s", rec.Code, rec.Body.String())
	}
	var expense struct {
		Currency string `json:"currency"`
		Amount   int64  `json:"amount"`
	}
	decodeBody(t, rec, &expense)
	if expense.Currency != "EUR" || expense.Amount != 4200 {
		t.Fatalf("expense = %+v, want EUR/4200", expense)
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+tripID, "owner-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get trip: status %d", rec.Code)
	}
	var view struct {
		TotalExpenses int64 `json:"total_expenses"`
	}
	decodeBody(t, rec, &view)
	if view.TotalExpenses != 4200 {
		t.Fatalf("total_expenses = %d, want 4200", view.TotalExpenses)
	}
}
