package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/storage/cursor"
)

type eventPageResponse struct {
	Events        []eventView `json:"events"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

func (h *Handler) handleListTripEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := principal(r)
	tripID := chi.URLParam(r, "tripID")

	afterSeq := uint64(0)
	if token := r.URL.Query().Get("page_token"); token != "" {
		c, err := cursor.Decode(token)
		if err != nil {
			writeError(w, apperrors.Wrap(apperrors.CodeMalformedRequest, "invalid page token", err))
			return
		}
		afterSeq = c.Seq
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	events, err := h.svc.ListTripEvents(r.Context(), userID, tripID, afterSeq, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := eventPageResponse{Events: make([]eventView, 0, len(events))}
	for _, evt := range events {
		resp.Events = append(resp.Events, newEventView(evt))
	}
	if limit > 0 && len(events) == limit {
		token, err := cursor.Encode(cursor.NewNextPageCursor(events[len(events)-1].Seq, false))
		if err != nil {
			writeError(w, err)
			return
		}
		resp.NextPageToken = token
	}
	writeJSON(w, http.StatusOK, resp)
}
