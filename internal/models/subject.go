package models

// Subject is a curriculum entry.
type Subject struct {
	ID          string `db:"id" json:"id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Units       int    `db:"units" json:"units"`
}
