package models

import "time"

// GradeStatus is the workflow state of a submitted score.
type GradeStatus string

const (
	GradeSubmitted GradeStatus = "Submitted"
	GradeApproved  GradeStatus = "Approved"
	GradeRejected  GradeStatus = "Rejected"
	GradeLocked    GradeStatus = "Locked"
)

// gradeTransitions captures the allowed forward moves. Locked is terminal.
var gradeTransitions = map[GradeStatus][]GradeStatus{
	GradeSubmitted: {GradeApproved, GradeRejected, GradeLocked},
	GradeApproved:  {GradeLocked},
	GradeRejected:  {GradeLocked},
	GradeLocked:    {},
}

// ValidGradeTarget reports whether the status is an acceptable disposition
// target at all, regardless of the current state.
func ValidGradeTarget(s GradeStatus) bool {
	switch s {
	case GradeApproved, GradeRejected, GradeLocked:
		return true
	}
	return false
}

// CanTransition reports whether the workflow permits moving from one status
// to another.
func CanTransition(from, to GradeStatus) bool {
	for _, next := range gradeTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Grading periods accepted on submission.
const (
	PeriodPrelim  = "Prelim"
	PeriodMidterm = "Midterm"
	PeriodFinals  = "Finals"
)

// Grade is a submitted score. Score and remarks are immutable once written;
// only the status moves, and only via the workflow.
type Grade struct {
	ID            string      `db:"id" json:"id"`
	LoadID        string      `db:"load_id" json:"load_id"`
	StudentID     string      `db:"student_id" json:"student_id"`
	GradingPeriod string      `db:"grading_period" json:"grading_period"`
	Score         float64     `db:"score" json:"score"`
	Remarks       *string     `db:"remarks" json:"remarks,omitempty"`
	Status        GradeStatus `db:"status" json:"status"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// StudentGrade joins a grade with subject and section for student views.
type StudentGrade struct {
	Grade
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Section     string `db:"section" json:"section"`
}

// SubmitGradeRequest is the teacher grade-submission payload.
type SubmitGradeRequest struct {
	LoadID        string  `json:"load_id" validate:"required"`
	StudentID     string  `json:"student_id" validate:"required"`
	GradingPeriod string  `json:"grading_period" validate:"required,oneof=Prelim Midterm Finals"`
	Score         float64 `json:"score" validate:"required,min=0,max=100"`
	Remarks       *string `json:"remarks"`
}

// DisposeGradeRequest carries the registrar disposition.
type DisposeGradeRequest struct {
	Status GradeStatus `json:"status" validate:"required"`
}
