package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
)

// principalHeader carries the verified user ID. Authentication happens
// upstream; an empty header means an anonymous caller.
const principalHeader = "X-User-ID"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	message := "an unexpected error occurred"
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: message,
	}})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
		Code:    "UNAUTHENTICATED",
		Message: "a verified user id is required",
	}})
}

// principal extracts the caller's user ID. ok is false for anonymous calls.
func principal(r *http.Request) (string, bool) {
	userID := r.Header.Get(principalHeader)
	return userID, userID != ""
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.CodeMalformedRequest, "malformed request body", err)
	}
	return nil
}
