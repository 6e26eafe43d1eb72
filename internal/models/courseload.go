package models

import "time"

// CourseLoad is a scheduled teaching assignment. Fields are immutable once
// the conflict check has passed and the row is inserted.
type CourseLoad struct {
	ID         string    `db:"id" json:"id"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	Section    string    `db:"section" json:"section"`
	Schedule   string    `db:"schedule" json:"schedule"`
	Room       string    `db:"room" json:"room"`
	Semester   string    `db:"semester" json:"semester"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CourseLoadDetail joins a course load with its subject for list views.
type CourseLoadDetail struct {
	CourseLoad
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Units       int    `db:"units" json:"units"`
}

// CreateCourseLoadRequest is the registrar schedule-creation payload. Room is
// mandatory: a schedule without a room is rejected before the conflict check.
type CreateCourseLoadRequest struct {
	TeacherID  string `json:"teacher_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Schedule   string `json:"schedule" validate:"required"`
	Room       string `json:"room" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
	SchoolYear string `json:"school_year" validate:"required"`
}

// Conflict kinds reported by the schedule checker.
const (
	ConflictKindTeacher = "teacher"
	ConflictKindRoom    = "room"
)

// ScheduleConflictDetail identifies which resource collided.
type ScheduleConflictDetail struct {
	Kind string `json:"kind"`
}
