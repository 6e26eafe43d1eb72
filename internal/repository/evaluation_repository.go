package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/records-api/internal/models"
)

// EvaluationRepository persists teacher evaluations and the HR-managed
// evaluation periods and questions.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new instance of EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Exists reports whether an evaluation already exists for the triple.
func (r *EvaluationRepository) Exists(ctx context.Context, studentID, teacherID, loadID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM evaluations WHERE student_id = $1 AND teacher_id = $2 AND load_id = $3`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID, teacherID, loadID); err != nil {
		return false, fmt.Errorf("check evaluation exists: %w", err)
	}
	return total > 0, nil
}

// Create inserts an evaluation. The unique index on the triple backstops the
// optimistic existence check under concurrent submissions.
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluations (id, student_id, teacher_id, load_id, q1_score, q2_score, q3_score, q4_score, q5_score, comment, created_at)
        VALUES (:id, :student_id, :teacher_id, :load_id, :q1_score, :q2_score, :q3_score, :q4_score, :q5_score, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, eval); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// ListAll returns every evaluation.
func (r *EvaluationRepository) ListAll(ctx context.Context) ([]models.Evaluation, error) {
	const query = `SELECT id, student_id, teacher_id, load_id, q1_score, q2_score, q3_score, q4_score, q5_score, comment, created_at FROM evaluations ORDER BY created_at DESC`
	var evals []models.Evaluation
	if err := r.db.SelectContext(ctx, &evals, query); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evals, nil
}

// CreatePeriod inserts an evaluation period.
func (r *EvaluationRepository) CreatePeriod(ctx context.Context, period *models.EvaluationPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.CreatedAt.IsZero() {
		period.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluation_periods (id, name, start_date, end_date, created_at) VALUES (:id, :name, :start_date, :end_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create evaluation period: %w", err)
	}
	return nil
}

// ListPeriods returns all evaluation periods, most recent first.
func (r *EvaluationRepository) ListPeriods(ctx context.Context) ([]models.EvaluationPeriod, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM evaluation_periods ORDER BY start_date DESC`
	var periods []models.EvaluationPeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list evaluation periods: %w", err)
	}
	return periods, nil
}

// CreateQuestion inserts a questionnaire item.
func (r *EvaluationRepository) CreateQuestion(ctx context.Context, question *models.EvaluationQuestion) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluation_questions (id, text, active, created_at) VALUES (:id, :text, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("create evaluation question: %w", err)
	}
	return nil
}

// ListActiveQuestions returns the active questionnaire items.
func (r *EvaluationRepository) ListActiveQuestions(ctx context.Context) ([]models.EvaluationQuestion, error) {
	const query = `SELECT id, text, active, created_at FROM evaluation_questions WHERE active = TRUE ORDER BY created_at`
	var questions []models.EvaluationQuestion
	if err := r.db.SelectContext(ctx, &questions, query); err != nil {
		return nil, fmt.Errorf("list active evaluation questions: %w", err)
	}
	return questions, nil
}
