package models

import "time"

// UserRole represents the role tag carried by every identity.
type UserRole string

const (
	RoleAdmin          UserRole = "Admin"
	RoleStudent        UserRole = "Student"
	RoleTeacher        UserRole = "Teacher"
	RoleRegistrar      UserRole = "Registrar"
	RoleAcademicDean   UserRole = "AcademicDean"
	RoleDepartmentHead UserRole = "DepartmentHead"
	RoleHR             UserRole = "HR"
	RoleAccounting     UserRole = "Accounting"
)

// AllRoles enumerates every valid role tag.
var AllRoles = []UserRole{
	RoleAdmin,
	RoleStudent,
	RoleTeacher,
	RoleRegistrar,
	RoleAcademicDean,
	RoleDepartmentHead,
	RoleHR,
	RoleAccounting,
}

// ValidRole reports whether the tag is one of the enumerated roles.
func ValidRole(role UserRole) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an identity stored in the users table. The role is
// immutable after creation.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the identity may authenticate.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// Identity status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// EnrichedUser is a user joined with its role profile for admin listings.
type EnrichedUser struct {
	User
	Profile *Profile `json:"profile,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// AuditLog captures an auth-related event for traceability.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	Action    string    `db:"action" json:"action"`
	Resource  string    `db:"resource" json:"resource"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Audit actions recorded by the auth service.
const (
	AuditActionLogin    = "LOGIN"
	AuditActionRegister = "REGISTER"
	AuditActionDelete   = "DELETE_USER"
)
