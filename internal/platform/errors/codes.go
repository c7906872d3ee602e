package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Trip errors
	CodeTripTitleTooShort           Code = "TRIP_TITLE_TOO_SHORT"
	CodeTripDatesInverted           Code = "TRIP_DATES_INVERTED"
	CodeTripStartInPast             Code = "TRIP_START_IN_PAST"
	CodeTripInvalidStatusTransition Code = "TRIP_INVALID_STATUS_TRANSITION"
	CodeTripDeleted                 Code = "TRIP_DELETED"
	CodeTripAlreadyDeleted          Code = "TRIP_ALREADY_DELETED"
	CodeTripNotDeleted              Code = "TRIP_NOT_DELETED"
	CodeTripCompleted               Code = "TRIP_COMPLETED"

	// Membership errors
	CodeMemberInvalidRole         Code = "MEMBER_INVALID_ROLE"
	CodeMemberNotPending          Code = "MEMBER_NOT_PENDING"
	CodeMemberNotAccepted         Code = "MEMBER_NOT_ACCEPTED"
	CodeMemberOwnerImmutable      Code = "MEMBER_OWNER_IMMUTABLE"
	CodeMemberOwnerRoleReserved   Code = "MEMBER_OWNER_ROLE_RESERVED"
	CodeMemberAlreadyMember       Code = "MEMBER_ALREADY_MEMBER"
	CodeMemberSelfInvite          Code = "MEMBER_SELF_INVITE"
	CodeMemberOwnerNeedsSuccessor Code = "MEMBER_OWNER_NEEDS_SUCCESSOR"

	// Expense errors
	CodeExpenseEmptyDescription Code = "EXPENSE_EMPTY_DESCRIPTION"
	CodeExpenseInvalidAmount    Code = "EXPENSE_INVALID_AMOUNT"

	// Authorization errors
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Transport errors
	CodeMalformedRequest Code = "MALFORMED_REQUEST"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Invitation grant errors
	CodeInviteGrantInvalid  Code = "INVITE_GRANT_INVALID"
	CodeInviteGrantExpired  Code = "INVITE_GRANT_EXPIRED"
	CodeInviteGrantMismatch Code = "INVITE_GRANT_MISMATCH"
)

// HTTPStatus maps domain codes to HTTP response status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, malformed input
	case CodeTripTitleTooShort,
		CodeTripDatesInverted,
		CodeTripStartInPast,
		CodeMemberInvalidRole,
		CodeMemberSelfInvite,
		CodeMemberOwnerRoleReserved,
		CodeExpenseEmptyDescription,
		CodeExpenseInvalidAmount,
		CodeMalformedRequest,
		CodeInviteGrantInvalid,
		CodeInviteGrantMismatch:
		return http.StatusBadRequest

	// Conflict - state does not allow the operation
	case CodeTripInvalidStatusTransition,
		CodeTripDeleted,
		CodeTripAlreadyDeleted,
		CodeTripNotDeleted,
		CodeTripCompleted,
		CodeMemberNotPending,
		CodeMemberNotAccepted,
		CodeMemberOwnerImmutable,
		CodeMemberOwnerNeedsSuccessor,
		CodeAlreadyExists,
		CodeInviteGrantExpired:
		return http.StatusConflict

	// Unprocessable - the request is well-formed but the membership state
	// rejects it
	case CodeMemberAlreadyMember:
		return http.StatusUnprocessableEntity

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// Forbidden - caller lacks the required capability
	case CodePermissionDenied:
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
