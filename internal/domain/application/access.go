package application

import "jobboard/internal/domain/user"

// CanView is the read gate for a single application: the owning student, the
// owning recruiter, or an administrator.
func CanView(app Application, caller user.Principal) bool {
	switch caller.Role {
	case user.RoleAdmin:
		return true
	case user.RoleStudent:
		return app.StudentID == caller.ID
	case user.RoleRecruiter:
		return app.RecruiterID == caller.ID
	default:
		return false
	}
}

// CanManage gates recruiter-side mutations (status, interview, feedback).
func CanManage(app Application, caller user.Principal) bool {
	switch caller.Role {
	case user.RoleAdmin:
		return true
	case user.RoleRecruiter:
		return app.RecruiterID == caller.ID
	default:
		return false
	}
}
