package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/trip/member"
)

type inviteMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type inviteMemberResponse struct {
	Member memberView `json:"member"`
	// Grant is the signed invitation token, present when grant signing is
	// configured.
	Grant string `json:"grant,omitempty"`
}

func (h *Handler) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req inviteMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.InviteMember(r.Context(), userID, chi.URLParam(r, "tripID"), req.UserID, member.ParseRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inviteMemberResponse{
		Member: newMemberView(result.Member),
		Grant:  result.Grant,
	})
}

type acceptInvitationRequest struct {
	Grant string `json:"grant"`
}

func (h *Handler) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req acceptInvitationRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	accepted, err := h.svc.AcceptInvitation(r.Context(), userID, chi.URLParam(r, "tripID"), req.Grant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemberView(accepted))
}

func (h *Handler) handleRejectInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.svc.RejectInvitation(r.Context(), userID, chi.URLParam(r, "tripID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLeaveTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.svc.LeaveTrip(r.Context(), userID, chi.URLParam(r, "tripID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	err := h.svc.RemoveMember(r.Context(), userID, chi.URLParam(r, "tripID"), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) handleChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	changed, err := h.svc.ChangeMemberRole(r.Context(), userID, chi.URLParam(r, "tripID"), chi.URLParam(r, "memberID"), member.ParseRole(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemberView(changed))
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	userID, _ := principal(r)

	members, err := h.svc.ListMembers(r.Context(), userID, chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, newMemberView(m))
	}
	writeJSON(w, http.StatusOK, map[string][]memberView{"members": views})
}

type putUserRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (h *Handler) handlePutUser(w http.ResponseWriter, r *http.Request) {
	var req putUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" {
		writeError(w, apperrors.New(apperrors.CodeMalformedRequest, "user id is required"))
		return
	}
	u, err := h.svc.RegisterUser(r.Context(), req.ID, req.DisplayName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":           u.ID,
		"display_name": u.DisplayName,
	})
}
