package trip

import (
	"fmt"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
)

// ErrInvalidStatusTransition indicates a disallowed trip status change.
var ErrInvalidStatusTransition = apperrors.New(apperrors.CodeTripInvalidStatusTransition, "trip status transition is not allowed")

// ValidateStatusTransition ensures the requested status change follows the
// legal graph: planning -> active -> {completed, cancelled}, planning ->
// cancelled, and cancelled -> planning for revived trips. It is the single
// place transition legality is decided; ChangeStatus itself stays
// unconditional.
func ValidateStatusTransition(from, to Status) error {
	switch from {
	case StatusPlanning:
		switch to {
		case StatusActive, StatusCancelled:
			return nil
		default:
			return newStatusTransitionError(from, to)
		}
	case StatusActive:
		switch to {
		case StatusCompleted, StatusCancelled:
			return nil
		default:
			return newStatusTransitionError(from, to)
		}
	case StatusCancelled:
		switch to {
		case StatusPlanning:
			return nil
		default:
			return newStatusTransitionError(from, to)
		}
	case StatusCompleted:
		return newStatusTransitionError(from, to)
	default:
		return newStatusTransitionError(from, to)
	}
}

func newStatusTransitionError(from, to Status) *apperrors.Error {
	fromLabel := StatusLabel(from)
	toLabel := StatusLabel(to)
	return apperrors.WithMetadata(
		apperrors.CodeTripInvalidStatusTransition,
		fmt.Sprintf("trip status %s cannot change to %s", fromLabel, toLabel),
		map[string]string{"From": fromLabel, "To": toLabel},
	)
}

// StatusLabel returns the string label for a trip status.
func StatusLabel(status Status) string {
	switch status {
	case StatusPlanning:
		return "planning"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// ParseStatus maps a status label back to its enum value.
func ParseStatus(label string) Status {
	switch label {
	case "planning":
		return StatusPlanning
	case "active":
		return StatusActive
	case "completed":
		return StatusCompleted
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnspecified
	}
}
