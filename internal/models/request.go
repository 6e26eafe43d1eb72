package models

import "time"

// RequestStatus is the document request lifecycle state.
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// ValidResolution reports whether the status is a permitted terminal outcome.
func ValidResolution(s RequestStatus) bool {
	return s == RequestApproved || s == RequestRejected
}

// Document request types accepted from students.
const (
	RequestTypeTOR         = "TOR"
	RequestTypeCOG         = "COG"
	RequestTypeGradeChange = "GradeChange"
	RequestTypeSubjectDrop = "SubjectDrop"
)

// DocumentRequest is a student-filed administrative request. The status is
// set exactly once from Pending; there is no reversal.
type DocumentRequest struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"user_id"`
	StudentName string        `db:"student_name" json:"student_name"`
	RequestType string        `db:"request_type" json:"request_type"`
	Status      RequestStatus `db:"status" json:"status"`
	Reason      *string       `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// CreateRequestRequest is the student payload for filing a request.
type CreateRequestRequest struct {
	RequestType string  `json:"request_type" validate:"required,oneof=TOR COG GradeChange SubjectDrop"`
	Reason      *string `json:"reason"`
}

// ResolveRequestRequest carries the registrar resolution.
type ResolveRequestRequest struct {
	Status RequestStatus `json:"status" validate:"required"`
}
