package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type rosterProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error)
	ListByRoleAndProgram(ctx context.Context, role models.UserRole, program string) ([]models.Profile, error)
	UpdateStudent(ctx context.Context, profile *models.Profile) error
}

// RosterService serves the student and teacher directories and the registrar
// student-record edits.
type RosterService struct {
	profiles  rosterProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewRosterService(profiles rosterProfileRepository, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RosterService{profiles: profiles, validator: validate, logger: logger}
}

// Students lists every student profile.
func (s *RosterService) Students(ctx context.Context) ([]models.Profile, error) {
	students, err := s.profiles.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Teachers lists every teacher profile.
func (s *RosterService) Teachers(ctx context.Context) ([]models.Profile, error) {
	teachers, err := s.profiles.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// StudentsForDepartment lists students whose program matches the caller's
// department.
func (s *RosterService) StudentsForDepartment(ctx context.Context, userID string) ([]models.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	students, err := s.profiles.ListByRoleAndProgram(ctx, models.RoleStudent, profile.Department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department students")
	}
	return students, nil
}

// UpdateStudent applies registrar edits to a student record. Only the
// academic fields move; identity fields and the external id are fixed at
// registration.
func (s *RosterService) UpdateStudent(ctx context.Context, studentProfileID string, req models.UpdateStudentRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	profile, err := s.profiles.FindByID(ctx, studentProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	if profile.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	if req.Program != "" {
		profile.Program = req.Program
	}
	if req.YearLevel != 0 {
		profile.YearLevel = req.YearLevel
	}
	if req.Section != "" {
		profile.Section = req.Section
	}
	if req.Enrollment != "" {
		profile.Enrollment = req.Enrollment
	}

	if err := s.profiles.UpdateStudent(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.logger.Info("student record updated", zap.String("profile_id", profile.ID))
	return profile, nil
}
