package member

// RoleLabel returns the string label for a member role.
func RoleLabel(role Role) string {
	switch role {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleViewer:
		return "viewer"
	default:
		return "unspecified"
	}
}

// ParseRole maps a role label back to its enum value.
func ParseRole(label string) Role {
	switch label {
	case "owner":
		return RoleOwner
	case "admin":
		return RoleAdmin
	case "member":
		return RoleMember
	case "viewer":
		return RoleViewer
	default:
		return RoleUnspecified
	}
}

// StatusLabel returns the string label for a membership status.
func StatusLabel(status Status) string {
	switch status {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusLeft:
		return "left"
	case StatusRemoved:
		return "removed"
	default:
		return "unspecified"
	}
}

// ParseStatus maps a membership status label back to its enum value.
func ParseStatus(label string) Status {
	switch label {
	case "pending":
		return StatusPending
	case "accepted":
		return StatusAccepted
	case "rejected":
		return StatusRejected
	case "left":
		return StatusLeft
	case "removed":
		return StatusRemoved
	default:
		return StatusUnspecified
	}
}
