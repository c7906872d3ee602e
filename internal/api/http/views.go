package httpapi

import (
	"encoding/json"
	"time"

	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

const dateLayout = "2006-01-02"

type tripView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Destination   string `json:"destination,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	OwnerID       string `json:"owner_id"`
	Category      string `json:"category,omitempty"`
	Status        string `json:"status"`
	IsGroupTrip   bool   `json:"is_group_trip"`
	IsPublic      bool   `json:"is_public"`
	BudgetLimit   int64  `json:"budget_limit,omitempty"`
	Currency      string `json:"currency,omitempty"`
	MemberCount   int    `json:"member_count"`
	TotalExpenses int64  `json:"total_expenses"`
	CanEdit       bool   `json:"can_edit"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func newTripView(t trip.Trip, canEdit bool) tripView {
	return tripView{
		ID:            t.ID,
		Title:         t.Title,
		Destination:   t.Destination,
		StartDate:     t.StartDate.Format(dateLayout),
		EndDate:       t.EndDate.Format(dateLayout),
		OwnerID:       t.OwnerID,
		Category:      t.Category,
		Status:        trip.StatusLabel(t.Status),
		IsGroupTrip:   t.IsGroupTrip,
		IsPublic:      t.IsPublic,
		BudgetLimit:   t.BudgetLimit,
		Currency:      t.Currency,
		MemberCount:   t.MemberCount,
		TotalExpenses: t.TotalExpenses,
		CanEdit:       canEdit,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

type memberView struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	InvitedBy string `json:"invited_by,omitempty"`
	InvitedAt string `json:"invited_at,omitempty"`
	JoinedAt  string `json:"joined_at,omitempty"`
	LeftAt    string `json:"left_at,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func newMemberView(m member.Member) memberView {
	v := memberView{
		ID:        m.ID,
		TripID:    m.TripID,
		UserID:    m.UserID,
		Role:      member.RoleLabel(m.Role),
		Status:    member.StatusLabel(m.Status),
		InvitedBy: m.InvitedBy,
		Notes:     m.Notes,
	}
	if m.InvitedAt != nil {
		v.InvitedAt = m.InvitedAt.Format(time.RFC3339)
	}
	if m.JoinedAt != nil {
		v.JoinedAt = m.JoinedAt.Format(time.RFC3339)
	}
	if m.LeftAt != nil {
		v.LeftAt = m.LeftAt.Format(time.RFC3339)
	}
	return v
}

type eventView struct {
	TripID     string          `json:"trip_id"`
	Seq        uint64          `json:"seq"`
	Timestamp  string          `json:"timestamp"`
	Type       string          `json:"type"`
	ActorType  string          `json:"actor_type"`
	ActorID    string          `json:"actor_id,omitempty"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityID   string          `json:"entity_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

func newEventView(evt event.Event) eventView {
	payload := json.RawMessage(evt.PayloadJSON)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return eventView{
		TripID:     evt.TripID,
		Seq:        evt.Seq,
		Timestamp:  evt.Timestamp.Format(time.RFC3339),
		Type:       string(evt.Type),
		ActorType:  string(evt.ActorType),
		ActorID:    evt.ActorID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Payload:    payload,
	}
}

type expenseView struct {
	ID          string `json:"id"`
	TripID      string `json:"trip_id"`
	MemberID    string `json:"member_id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	IncurredAt  string `json:"incurred_at"`
}

func newExpenseView(e storage.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		TripID:      e.TripID,
		MemberID:    e.MemberID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		IncurredAt:  e.IncurredAt.Format(time.RFC3339),
	}
}
