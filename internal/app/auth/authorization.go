package auth

import (
	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
)

// RequireRole fails unless the caller holds one of the allowed roles.
func RequireRole(caller models.Caller, allowed ...models.Role) error {
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return apperrors.NewForbiddenError("insufficient permissions")
}

// RequireOwnerOrAdmin passes for admins and for the user owning the
// target resource. Applied to student profile reads/updates and to
// enroll/drop operations.
func RequireOwnerOrAdmin(caller models.Caller, resourceOwnerUserID int64) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Role == models.RoleStudent && caller.ID == resourceOwnerUserID {
		return nil
	}
	return apperrors.NewForbiddenError("you can only access your own profile")
}
