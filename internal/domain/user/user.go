package user

import (
	"strings"

	"jobboard/internal/common"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

// Principal is the authenticated caller. Core operations take it as an
// explicit argument instead of reading it from a request context.
type Principal struct {
	ID   common.UUID
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
