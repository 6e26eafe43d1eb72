package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/repository"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type courseLoadRepository interface {
	Create(ctx context.Context, load *models.CourseLoad) error
	FindByID(ctx context.Context, id string) (*models.CourseLoad, error)
	CountByTeacherSlot(ctx context.Context, teacherID, schedule, semester, schoolYear string) (int, error)
	CountByRoomSlot(ctx context.Context, room, schedule, semester, schoolYear string) (int, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.CourseLoadDetail, error)
	ListAll(ctx context.Context) ([]models.CourseLoadDetail, error)
}

type scheduleProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.Profile, error)
}

type scheduleSubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// ScheduleService assigns course loads and guards teaching slots against
// double booking.
type ScheduleService struct {
	loads     courseLoadRepository
	profiles  scheduleProfileRepository
	subjects  scheduleSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewScheduleService(loads courseLoadRepository, profiles scheduleProfileRepository, subjects scheduleSubjectRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{loads: loads, profiles: profiles, subjects: subjects, validator: validate, logger: logger}
}

// AssignLoad creates a teaching assignment. The teacher slot is checked
// before the room slot, so when both would collide the teacher conflict is
// the one reported.
func (s *ScheduleService) AssignLoad(ctx context.Context, req models.CreateCourseLoadRequest) (*models.CourseLoad, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course load payload")
	}

	teacher, err := s.profiles.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignee is not a teacher")
	}

	taken, err := s.loads.CountByTeacherSlot(ctx, req.TeacherID, req.Schedule, req.Semester, req.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher slot")
	}
	if taken > 0 {
		return nil, scheduleConflict(models.ConflictKindTeacher, req)
	}

	occupied, err := s.loads.CountByRoomSlot(ctx, req.Room, req.Schedule, req.Semester, req.SchoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room slot")
	}
	if occupied > 0 {
		return nil, scheduleConflict(models.ConflictKindRoom, req)
	}

	load := &models.CourseLoad{
		TeacherID:  req.TeacherID,
		SubjectID:  req.SubjectID,
		Section:    req.Section,
		Schedule:   req.Schedule,
		Room:       req.Room,
		Semester:   req.Semester,
		SchoolYear: req.SchoolYear,
	}
	if err := s.loads.Create(ctx, load); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, s.classifyLostRace(ctx, req)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course load")
	}
	s.logger.Info("course load assigned",
		zap.String("teacher_id", req.TeacherID),
		zap.String("schedule", req.Schedule),
		zap.String("room", req.Room))
	return load, nil
}

func scheduleConflict(kind string, req models.CreateCourseLoadRequest) *appErrors.Error {
	message := fmt.Sprintf("teacher already assigned at %s", req.Schedule)
	if kind == models.ConflictKindRoom {
		message = fmt.Sprintf("room %s already occupied at %s", req.Room, req.Schedule)
	}
	conflict := appErrors.Clone(appErrors.ErrScheduleConflict, message)
	conflict.Details = models.ScheduleConflictDetail{Kind: kind}
	return conflict
}

// classifyLostRace re-runs the teacher predicate after a unique-index hit to
// report which resource the concurrent winner took. The check order matches
// the optimistic path, so a double collision reports the teacher.
func (s *ScheduleService) classifyLostRace(ctx context.Context, req models.CreateCourseLoadRequest) *appErrors.Error {
	taken, err := s.loads.CountByTeacherSlot(ctx, req.TeacherID, req.Schedule, req.Semester, req.SchoolYear)
	if err == nil && taken > 0 {
		return scheduleConflict(models.ConflictKindTeacher, req)
	}
	return scheduleConflict(models.ConflictKindRoom, req)
}

// LoadsForUser resolves the caller's teacher profile and lists its
// assignments.
func (s *ScheduleService) LoadsForUser(ctx context.Context, userID string) ([]models.CourseLoadDetail, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.LoadsForTeacher(ctx, profile.ID)
}

// LoadsForTeacher lists a teacher's assignments with subject details.
func (s *ScheduleService) LoadsForTeacher(ctx context.Context, teacherProfileID string) ([]models.CourseLoadDetail, error) {
	loads, err := s.loads.ListByTeacher(ctx, teacherProfileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course loads")
	}
	return loads, nil
}

// StudentsForLoad lists the students sectioned under one of the caller's
// assignments. The load must belong to the calling teacher.
func (s *ScheduleService) StudentsForLoad(ctx context.Context, userID, loadID string) ([]models.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}

	load, err := s.loads.FindByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course load not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course load")
	}
	if load.TeacherID != profile.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course load belongs to another teacher")
	}

	students, err := s.profiles.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	roster := make([]models.Profile, 0, len(students))
	for _, student := range students {
		if student.Section == load.Section {
			roster = append(roster, student)
		}
	}
	return roster, nil
}

// AllLoads lists every assignment with subject details.
func (s *ScheduleService) AllLoads(ctx context.Context) ([]models.CourseLoadDetail, error) {
	loads, err := s.loads.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course loads")
	}
	return loads, nil
}

// Subjects returns the subject catalog.
func (s *ScheduleService) Subjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}
