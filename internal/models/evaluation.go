package models

import "time"

// Evaluation is a student's rating of a teacher for one course load. At most
// one record exists per (student, teacher, load) triple; it is never updated
// or deleted.
type Evaluation struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	LoadID    string    `db:"load_id" json:"load_id"`
	Q1Score   int       `db:"q1_score" json:"q1_score"`
	Q2Score   int       `db:"q2_score" json:"q2_score"`
	Q3Score   int       `db:"q3_score" json:"q3_score"`
	Q4Score   int       `db:"q4_score" json:"q4_score"`
	Q5Score   int       `db:"q5_score" json:"q5_score"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SubmitEvaluationRequest is the student evaluation payload. Item scores are
// range-checked 1-5.
type SubmitEvaluationRequest struct {
	TeacherID string  `json:"teacher_id" validate:"required"`
	LoadID    string  `json:"load_id" validate:"required"`
	Q1Score   int     `json:"q1_score" validate:"required,min=1,max=5"`
	Q2Score   int     `json:"q2_score" validate:"required,min=1,max=5"`
	Q3Score   int     `json:"q3_score" validate:"required,min=1,max=5"`
	Q4Score   int     `json:"q4_score" validate:"required,min=1,max=5"`
	Q5Score   int     `json:"q5_score" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment"`
}

// EvaluationPeriod is an HR-managed evaluation window.
type EvaluationPeriod struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate string    `db:"start_date" json:"start_date"`
	EndDate   string    `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateEvaluationPeriodRequest is the HR payload for opening a window.
type CreateEvaluationPeriodRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// EvaluationQuestion is an HR-managed questionnaire item.
type EvaluationQuestion struct {
	ID        string    `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateEvaluationQuestionRequest is the HR payload for adding a question.
type CreateEvaluationQuestionRequest struct {
	Text   string `json:"text" validate:"required"`
	Active *bool  `json:"active"`
}
