package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/records-api/internal/models"
)

const gradeColumns = `id, load_id, student_id, grading_period, score, remarks, status, created_at, updated_at`

// GradeRepository persists grade workflow rows.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// Create inserts a new grade row. Callers always insert; submissions never
// overwrite an existing row.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, load_id, student_id, grading_period, score, remarks, status, created_at, updated_at)
        VALUES (:id, :load_id, :student_id, :grading_period, :score, :remarks, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// FindByID returns a grade by identifier.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades WHERE id = $1 LIMIT 1`, gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find grade by id: %w", err)
	}
	return &grade, nil
}

// UpdateStatus moves a grade from one status to another with compare-and-set
// semantics: the update applies only when the current status still matches.
// It returns sql.ErrNoRows when no row was updated, leaving the caller to
// distinguish a missing grade from a lost race.
func (r *GradeRepository) UpdateStatus(ctx context.Context, id string, from, to models.GradeStatus) error {
	const query = `UPDATE grades SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update grade status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update grade status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByTriple counts grades for a (load, student, period) triple. Used by
// the configurable resubmission policy.
func (r *GradeRepository) CountByTriple(ctx context.Context, loadID, studentID, period string) (int, error) {
	const query = `SELECT COUNT(*) FROM grades WHERE load_id = $1 AND student_id = $2 AND grading_period = $3`
	var total int
	if err := r.db.GetContext(ctx, &total, query, loadID, studentID, period); err != nil {
		return 0, fmt.Errorf("count grades by triple: %w", err)
	}
	return total, nil
}

// ListByStudent returns a student's grades joined with subject and section.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentGrade, error) {
	const query = `SELECT g.id, g.load_id, g.student_id, g.grading_period, g.score, g.remarks, g.status, g.created_at, g.updated_at,
        s.subject_code, s.subject_name, cl.section
        FROM grades g
        JOIN course_loads cl ON cl.id = g.load_id
        JOIN subjects s ON s.id = cl.subject_id
        WHERE g.student_id = $1
        ORDER BY g.created_at DESC`
	var grades []models.StudentGrade
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("list grades by student: %w", err)
	}
	return grades, nil
}

// ListByStatus returns grades in one workflow state.
func (r *GradeRepository) ListByStatus(ctx context.Context, status models.GradeStatus) ([]models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades WHERE status = $1 ORDER BY created_at DESC`, gradeColumns)
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, status); err != nil {
		return nil, fmt.Errorf("list grades by status: %w", err)
	}
	return grades, nil
}

// ListAll returns every grade row.
func (r *GradeRepository) ListAll(ctx context.Context) ([]models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades ORDER BY created_at DESC`, gradeColumns)
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list all grades: %w", err)
	}
	return grades, nil
}

// ListByProgram returns grades of students whose profile program matches.
func (r *GradeRepository) ListByProgram(ctx context.Context, program string) ([]models.StudentGrade, error) {
	const query = `SELECT g.id, g.load_id, g.student_id, g.grading_period, g.score, g.remarks, g.status, g.created_at, g.updated_at,
        s.subject_code, s.subject_name, cl.section
        FROM grades g
        JOIN profiles p ON p.id = g.student_id
        JOIN course_loads cl ON cl.id = g.load_id
        JOIN subjects s ON s.id = cl.subject_id
        WHERE p.program = $1
        ORDER BY g.created_at DESC`
	var grades []models.StudentGrade
	if err := r.db.SelectContext(ctx, &grades, query, program); err != nil {
		return nil, fmt.Errorf("list grades by program: %w", err)
	}
	return grades, nil
}
