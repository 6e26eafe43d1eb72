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

const courseLoadDetailQuery = `SELECT cl.id, cl.teacher_id, cl.subject_id, cl.section, cl.schedule, cl.room, cl.semester, cl.school_year, cl.created_at,
        s.subject_code, s.subject_name, s.units
        FROM course_loads cl
        JOIN subjects s ON s.id = cl.subject_id`

// CourseLoadRepository persists teaching assignments.
type CourseLoadRepository struct {
	db *sqlx.DB
}

// NewCourseLoadRepository creates a new instance of CourseLoadRepository.
func NewCourseLoadRepository(db *sqlx.DB) *CourseLoadRepository {
	return &CourseLoadRepository{db: db}
}

// Create inserts a course load with all supplied fields.
func (r *CourseLoadRepository) Create(ctx context.Context, load *models.CourseLoad) error {
	if load.ID == "" {
		load.ID = uuid.NewString()
	}
	if load.CreatedAt.IsZero() {
		load.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_loads (id, teacher_id, subject_id, section, schedule, room, semester, school_year, created_at)
        VALUES (:id, :teacher_id, :subject_id, :section, :schedule, :room, :semester, :school_year, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, load); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create course load: %w", err)
	}
	return nil
}

// FindByID returns a course load by identifier.
func (r *CourseLoadRepository) FindByID(ctx context.Context, id string) (*models.CourseLoad, error) {
	const query = `SELECT id, teacher_id, subject_id, section, schedule, room, semester, school_year, created_at FROM course_loads WHERE id = $1 LIMIT 1`
	var load models.CourseLoad
	if err := r.db.GetContext(ctx, &load, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course load by id: %w", err)
	}
	return &load, nil
}

// CountByTeacherSlot counts existing loads for a teacher at the same slot
// within one term.
func (r *CourseLoadRepository) CountByTeacherSlot(ctx context.Context, teacherID, schedule, semester, schoolYear string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_loads WHERE teacher_id = $1 AND schedule = $2 AND semester = $3 AND school_year = $4`
	var total int
	if err := r.db.GetContext(ctx, &total, query, teacherID, schedule, semester, schoolYear); err != nil {
		return 0, fmt.Errorf("count loads by teacher slot: %w", err)
	}
	return total, nil
}

// CountByRoomSlot counts existing loads for a room at the same slot within
// one term.
func (r *CourseLoadRepository) CountByRoomSlot(ctx context.Context, room, schedule, semester, schoolYear string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_loads WHERE room = $1 AND schedule = $2 AND semester = $3 AND school_year = $4`
	var total int
	if err := r.db.GetContext(ctx, &total, query, room, schedule, semester, schoolYear); err != nil {
		return 0, fmt.Errorf("count loads by room slot: %w", err)
	}
	return total, nil
}

// ListByTeacher returns a teacher's loads joined with their subjects.
func (r *CourseLoadRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.CourseLoadDetail, error) {
	query := courseLoadDetailQuery + ` WHERE cl.teacher_id = $1 ORDER BY cl.created_at DESC`
	var loads []models.CourseLoadDetail
	if err := r.db.SelectContext(ctx, &loads, query, teacherID); err != nil {
		return nil, fmt.Errorf("list loads by teacher: %w", err)
	}
	return loads, nil
}

// ListAll returns every load joined with its subject.
func (r *CourseLoadRepository) ListAll(ctx context.Context) ([]models.CourseLoadDetail, error) {
	query := courseLoadDetailQuery + ` ORDER BY cl.created_at DESC`
	var loads []models.CourseLoadDetail
	if err := r.db.SelectContext(ctx, &loads, query); err != nil {
		return nil, fmt.Errorf("list all loads: %w", err)
	}
	return loads, nil
}

// CountByTeacher counts loads assigned to a teacher.
func (r *CourseLoadRepository) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_loads WHERE teacher_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, teacherID); err != nil {
		return 0, fmt.Errorf("count loads by teacher: %w", err)
	}
	return total, nil
}
