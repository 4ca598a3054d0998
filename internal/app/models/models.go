package models

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	}
	return false
}

// EnrollmentStatus defines the state of an enrollment entry
type EnrollmentStatus string

const (
	StatusEnrolled EnrollmentStatus = "enrolled"
	StatusDropped  EnrollmentStatus = "dropped"
)

// Caller identifies the authenticated user making a request.
// Populated by the auth middleware from validated token claims.
type Caller struct {
	ID    int64
	Role  Role
	Email string
	Name  string
}

// IsAdmin reports whether the caller has the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
