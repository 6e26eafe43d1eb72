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

type attendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
}

type attendanceLoadRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseLoad, error)
}

type attendanceProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type attendanceSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// AttendanceService records attendance marks and fans out absence alerts.
type AttendanceService struct {
	records   attendanceRepository
	loads     attendanceLoadRepository
	profiles  attendanceProfileRepository
	subjects  attendanceSubjectRepository
	notify    *NotificationService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewAttendanceService(records attendanceRepository, loads attendanceLoadRepository, profiles attendanceProfileRepository, subjects attendanceSubjectRepository, notify *NotificationService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{records: records, loads: loads, profiles: profiles, subjects: subjects, notify: notify, validator: validate, logger: logger}
}

// Mark records one student's attendance for a date under one of the
// teacher's loads. An Absent mark queues an email alert to the student.
func (s *AttendanceService) Mark(ctx context.Context, teacherProfileID string, req models.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
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
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance target is not a student")
	}

	record := &models.AttendanceRecord{
		LoadID:    req.LoadID,
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    req.Status,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	if req.Status == models.AttendanceAbsent && s.notify != nil {
		subjectName := load.SubjectID
		if subject, err := s.subjects.FindByID(ctx, load.SubjectID); err == nil {
			subjectName = subject.SubjectName
		}
		s.notify.NotifyAbsence(AbsenceAlert{
			Email:       student.Email,
			StudentName: student.FullName(),
			SubjectName: subjectName,
			Date:        req.Date,
		})
	}

	return record, nil
}

// MarkForUser resolves the caller's teacher profile before marking.
func (s *AttendanceService) MarkForUser(ctx context.Context, userID string, req models.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.Mark(ctx, profile.ID, req)
}

// HistoryForUser resolves the caller's student profile and lists its
// attendance records.
func (s *AttendanceService) HistoryForUser(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	records, err := s.records.ListByStudent(ctx, profile.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}
