package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type gradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	UpdateStatus(ctx context.Context, id string, from, to models.GradeStatus) error
	CountByTriple(ctx context.Context, loadID, studentID, period string) (int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentGrade, error)
	ListByStatus(ctx context.Context, status models.GradeStatus) ([]models.Grade, error)
	ListAll(ctx context.Context) ([]models.Grade, error)
	ListByProgram(ctx context.Context, program string) ([]models.StudentGrade, error)
}

type gradeLoadRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseLoad, error)
}

type gradeProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// GradeConfig tunes the grade workflow.
type GradeConfig struct {
	// AllowResubmission permits a teacher to submit a second row for the
	// same (load, student, period) triple, superseding the earlier one in
	// listings. When false a repeat submission is refused.
	AllowResubmission bool
}

// GradeService runs the grade submission and disposition workflow.
type GradeService struct {
	grades    gradeRepository
	loads     gradeLoadRepository
	profiles  gradeProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    GradeConfig
}

func NewGradeService(grades gradeRepository, loads gradeLoadRepository, profiles gradeProfileRepository, validate *validator.Validate, logger *zap.Logger, config GradeConfig) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{grades: grades, loads: loads, profiles: profiles, validator: validate, logger: logger, config: config}
}

// Submit records a score for a student under one of the teacher's loads. The
// load must belong to the submitting teacher and the student must be an
// enrolled student profile. New rows always start Submitted.
func (s *GradeService) Submit(ctx context.Context, teacherProfileID string, req models.SubmitGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	load, err := s.loads.FindByID(ctx, req.LoadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course load not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course load")
	}
	if load.TeacherID != teacherProfileID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course load belongs to another teacher")
	}

	student, err := s.profiles.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade target is not a student")
	}

	if !s.config.AllowResubmission {
		existing, err := s.grades.CountByTriple(ctx, req.LoadID, req.StudentID, req.GradingPeriod)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check prior submission")
		}
		if existing > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("grade already submitted for %s", req.GradingPeriod))
		}
	}

	grade := &models.Grade{
		LoadID:        req.LoadID,
		StudentID:     req.StudentID,
		GradingPeriod: req.GradingPeriod,
		Score:         req.Score,
		Remarks:       req.Remarks,
		Status:        models.GradeSubmitted,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	s.logger.Info("grade submitted",
		zap.String("grade_id", grade.ID),
		zap.String("load_id", grade.LoadID),
		zap.String("period", grade.GradingPeriod))
	return grade, nil
}

// SubmitForUser resolves the caller's teacher profile before submitting.
func (s *GradeService) SubmitForUser(ctx context.Context, userID string, req models.SubmitGradeRequest) (*models.Grade, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.Submit(ctx, profile.ID, req)
}

// Dispose moves a grade to a new workflow status. The update is
// compare-and-set on the current status; a concurrent disposition that wins
// the race leaves this one rejected with the state it lost to.
func (s *GradeService) Dispose(ctx context.Context, gradeID string, req models.DisposeGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid disposition payload")
	}
	if !models.ValidGradeTarget(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a disposition target", req.Status))
	}

	grade, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve grade")
	}

	if !models.CanTransition(grade.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("cannot move grade from %s to %s", grade.Status, req.Status))
	}

	if err := s.grades.UpdateStatus(ctx, gradeID, grade.Status, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a race: re-read to report the state that won.
			current, readErr := s.grades.FindByID(ctx, gradeID)
			if readErr != nil {
				return nil, appErrors.Clone(appErrors.ErrInvalidState, "grade state changed concurrently")
			}
			return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("cannot move grade from %s to %s", current.Status, req.Status))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade status")
	}

	grade.Status = req.Status
	s.logger.Info("grade disposed", zap.String("grade_id", gradeID), zap.String("status", string(req.Status)))
	return grade, nil
}

// GradesForUser resolves the caller's student profile and lists its grades.
func (s *GradeService) GradesForUser(ctx context.Context, userID string) ([]models.StudentGrade, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.GradesForStudent(ctx, profile.ID)
}

// GradesForStudent lists grades by student profile id.
func (s *GradeService) GradesForStudent(ctx context.Context, studentProfileID string) ([]models.StudentGrade, error) {
	grades, err := s.grades.ListByStudent(ctx, studentProfileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// PendingGrades lists grades awaiting disposition.
func (s *GradeService) PendingGrades(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.grades.ListByStatus(ctx, models.GradeSubmitted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submitted grades")
	}
	return grades, nil
}

// AllGrades lists every grade row for oversight views.
func (s *GradeService) AllGrades(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.grades.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// GradesForDepartment lists grades of students whose program matches the
// department head's department.
func (s *GradeService) GradesForDepartment(ctx context.Context, userID string) ([]models.StudentGrade, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	grades, err := s.grades.ListByProgram(ctx, profile.Department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department grades")
	}
	return grades, nil
}
