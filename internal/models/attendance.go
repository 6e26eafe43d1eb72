package models

import "time"

// Attendance status values.
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLate    = "Late"
)

// AttendanceRecord marks one student on one date for one course load.
type AttendanceRecord struct {
	ID        string    `db:"id" json:"id"`
	LoadID    string    `db:"load_id" json:"load_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Date      string    `db:"date" json:"date"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RecordAttendanceRequest is the teacher attendance payload.
type RecordAttendanceRequest struct {
	LoadID    string `json:"load_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late"`
}
