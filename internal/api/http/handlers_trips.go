package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/trip"
	"github.com/wanderlist/wanderlist/internal/trip/policy"
)

type createTripRequest struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
	IsGroupTrip bool   `json:"is_group_trip"`
	IsPublic    bool   `json:"is_public"`
	BudgetLimit int64  `json:"budget_limit"`
	Currency    string `json:"currency"`
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.WithMetadata(apperrors.CodeMalformedRequest,
			"date must be formatted YYYY-MM-DD", map[string]string{"field": field})
	}
	return parsed, nil
}

func (h *Handler) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.svc.CreateTrip(r.Context(), userID, trip.CreateTripInput{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		OwnerID:     userID,
		Category:    req.Category,
		IsGroupTrip: req.IsGroupTrip,
		IsPublic:    req.IsPublic,
		BudgetLimit: req.BudgetLimit,
		Currency:    req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTripView(created, true))
}

func (h *Handler) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := principal(r)
	tripID := chi.URLParam(r, "tripID")

	t, err := h.svc.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripView(t, h.canEdit(r.Context(), tripID, userID)))
}

func (h *Handler) canEdit(ctx context.Context, tripID, userID string) bool {
	if userID == "" {
		return false
	}
	ok, err := h.svc.HasCapability(ctx, tripID, userID, policy.CapabilityEditTrip)
	return err == nil && ok
}

type tripPageResponse struct {
	Trips         []tripView `json:"trips"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

func pageParams(r *http.Request) (int, string) {
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return pageSize, r.URL.Query().Get("page_token")
}

func (h *Handler) handleListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	pageSize, pageToken := pageParams(r)
	page, err := h.svc.ListTripsForUser(r.Context(), userID, pageSize, pageToken)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := tripPageResponse{Trips: make([]tripView, 0, len(page.Trips)), NextPageToken: page.NextPageToken}
	for _, t := range page.Trips {
		resp.Trips = append(resp.Trips, newTripView(t, h.canEdit(r.Context(), t.ID, userID)))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListPublicTrips(w http.ResponseWriter, r *http.Request) {
	pageSize, pageToken := pageParams(r)
	page, err := h.svc.ListPublicTrips(r.Context(), pageSize, pageToken)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := principal(r)
	resp := tripPageResponse{Trips: make([]tripView, 0, len(page.Trips)), NextPageToken: page.NextPageToken}
	for _, t := range page.Trips {
		canEdit := false
		if userID != "" {
			canEdit = h.canEdit(r.Context(), t.ID, userID)
		}
		resp.Trips = append(resp.Trips, newTripView(t, canEdit))
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateTripRequest struct {
	Title       *string `json:"title"`
	Destination *string `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Category    *string `json:"category"`
	IsGroupTrip *bool   `json:"is_group_trip"`
	IsPublic    *bool   `json:"is_public"`
	BudgetLimit *int64  `json:"budget_limit"`
	Currency    *string `json:"currency"`
}

func (h *Handler) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req updateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input := trip.UpdateDetailsInput{
		Title:       req.Title,
		Destination: req.Destination,
		Category:    req.Category,
		IsGroupTrip: req.IsGroupTrip,
		IsPublic:    req.IsPublic,
		BudgetLimit: req.BudgetLimit,
		Currency:    req.Currency,
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate, "start_date")
		if err != nil {
			writeError(w, err)
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate, "end_date")
		if err != nil {
			writeError(w, err)
			return
		}
		input.EndDate = &end
	}

	updated, err := h.svc.UpdateTrip(r.Context(), userID, chi.URLParam(r, "tripID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripView(updated, true))
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleChangeTripStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.svc.ChangeTripStatus(r.Context(), userID, chi.URLParam(r, "tripID"), trip.ParseStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripView(updated, true))
}

func (h *Handler) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.svc.DeleteTrip(r.Context(), userID, chi.URLParam(r, "tripID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestoreTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	restored, err := h.svc.RestoreTrip(r.Context(), userID, chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripView(restored, true))
}
