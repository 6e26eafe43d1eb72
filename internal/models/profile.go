package models

import (
	"strings"

	"github.com/google/uuid"
)

// Profile is the role-scoped record attached to an identity. One row exists
// per identity per matching role family; the external ID is generated once
// and never changes.
type Profile struct {
	ID         string   `db:"id" json:"id"`
	UserID     string   `db:"user_id" json:"user_id"`
	Role       UserRole `db:"role" json:"role"`
	ExternalID string   `db:"external_id" json:"external_id"`
	FirstName  string   `db:"first_name" json:"first_name"`
	LastName   string   `db:"last_name" json:"last_name"`
	Email      string   `db:"email" json:"email"`
	Program    string   `db:"program" json:"program,omitempty"`
	YearLevel  int      `db:"year_level" json:"year_level,omitempty"`
	Department string   `db:"department" json:"department,omitempty"`
	Section    string   `db:"section" json:"section,omitempty"`
	Enrollment string   `db:"enrollment_status" json:"enrollment_status,omitempty"`
}

// FullName joins the profile name parts.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ProfileFamily describes one role family: its external ID prefix and which
// role-specific fields registration must supply. Registration and deletion
// iterate the family set instead of branching per role.
type ProfileFamily struct {
	Role               UserRole
	ExternalIDPrefix   string
	RequiresDepartment bool
	DefaultsProgram    bool
	DefaultsEnrollment bool
}

var profileFamilies = []ProfileFamily{
	{Role: RoleStudent, ExternalIDPrefix: "STU", DefaultsProgram: true, DefaultsEnrollment: true},
	{Role: RoleTeacher, ExternalIDPrefix: "TCH", RequiresDepartment: true},
	{Role: RoleRegistrar, ExternalIDPrefix: "REG"},
	{Role: RoleAcademicDean, ExternalIDPrefix: "DEA"},
	{Role: RoleDepartmentHead, ExternalIDPrefix: "DPH", RequiresDepartment: true},
	{Role: RoleHR, ExternalIDPrefix: "HRS"},
	{Role: RoleAccounting, ExternalIDPrefix: "ACC"},
}

// ProfileFamilies returns the registered role families. Admin carries no
// profile and is intentionally absent.
func ProfileFamilies() []ProfileFamily {
	return profileFamilies
}

// FamilyForRole returns the profile family for a role, if one exists.
func FamilyForRole(role UserRole) (ProfileFamily, bool) {
	for _, f := range profileFamilies {
		if f.Role == role {
			return f, true
		}
	}
	return ProfileFamily{}, false
}

// NewExternalID generates a human-readable external identifier such as
// STU1A2B3C4D from the family prefix and a random suffix.
func (f ProfileFamily) NewExternalID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return f.ExternalIDPrefix + suffix
}

// Enrollment status values tracked on student profiles.
const (
	EnrollmentEnrolled = "Enrolled"
	EnrollmentDropped  = "Dropped"
	EnrollmentOnLeave  = "OnLeave"
)

// UpdateStudentRequest carries the registrar-editable student fields.
type UpdateStudentRequest struct {
	Program    string `json:"program" validate:"omitempty,min=1"`
	YearLevel  int    `json:"year_level" validate:"omitempty,min=1,max=6"`
	Section    string `json:"section"`
	Enrollment string `json:"enrollment_status" validate:"omitempty,oneof=Enrolled Dropped OnLeave"`
}
