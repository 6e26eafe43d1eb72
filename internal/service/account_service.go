package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

const adminStatsCacheKey = "stats:admin"

type accountUserRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type accountProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

type accountSubjectRepository interface {
	Count(ctx context.Context) (int, error)
}

type accountRequestRepository interface {
	CountByStatus(ctx context.Context, status models.RequestStatus) (int, error)
}

type accountLoadRepository interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
}

// AccountService covers the administrator surface: account listing, cascade
// deletion and the platform statistics snapshot.
type AccountService struct {
	users    accountUserRepository
	profiles accountProfileRepository
	subjects accountSubjectRepository
	requests accountRequestRepository
	loads    accountLoadRepository
	cache    *CacheService
	logger   *zap.Logger
}

func NewAccountService(users accountUserRepository, profiles accountProfileRepository, subjects accountSubjectRepository, requests accountRequestRepository, loads accountLoadRepository, cache *CacheService, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{users: users, profiles: profiles, subjects: subjects, requests: requests, loads: loads, cache: cache, logger: logger}
}

// ListUsers returns a page of identities, each enriched with its role
// profile when one exists.
func (s *AccountService) ListUsers(ctx context.Context, page, pageSize int) ([]models.EnrichedUser, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.users.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	enriched := make([]models.EnrichedUser, 0, len(users))
	for i := range users {
		item := models.EnrichedUser{User: users[i]}
		if _, hasFamily := models.FamilyForRole(users[i].Role); hasFamily {
			profile, err := s.profiles.FindByUserID(ctx, users[i].ID)
			if err == nil {
				item.Profile = profile
			} else if !errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
			}
		}
		enriched = append(enriched, item)
	}

	return enriched, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// DeleteUser removes an identity and its dependent profile rows. Deleting an
// unknown identity returns not found rather than succeeding silently.
func (s *AccountService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionDelete,
		Resource: "users/" + userID,
	}); err != nil {
		s.logger.Warn("failed to record deletion audit log", zap.Error(err))
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, "stats:*")
	}
	return nil
}

// Stats returns the platform snapshot, served from cache when warm.
func (s *AccountService) Stats(ctx context.Context) (*models.AdminStats, error) {
	if s.cache != nil {
		var cached models.AdminStats
		if err := s.cache.GetJSON(ctx, adminStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	students, err := s.profiles.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	teachers, err := s.profiles.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	subjects, err := s.subjects.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subjects")
	}
	pending, err := s.requests.CountByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending requests")
	}

	stats := &models.AdminStats{
		TotalStudents:   students,
		TotalTeachers:   teachers,
		TotalSubjects:   subjects,
		PendingRequests: pending,
	}
	if s.cache != nil {
		s.cache.SetJSON(ctx, adminStatsCacheKey, stats)
	}
	return stats, nil
}

// TeacherStats returns a teacher's workload snapshot, served from cache
// when warm.
func (s *AccountService) TeacherStats(ctx context.Context, teacherProfileID string) (*models.TeacherStats, error) {
	key := "stats:teacher:" + teacherProfileID
	if s.cache != nil {
		var cached models.TeacherStats
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	courses, err := s.loads.CountByTeacher(ctx, teacherProfileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count course loads")
	}
	students, err := s.profiles.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	stats := &models.TeacherStats{TotalCourses: courses, TotalStudents: students}
	if s.cache != nil {
		s.cache.SetJSON(ctx, key, stats)
	}
	return stats, nil
}

// TeacherStatsForUser resolves the caller's teacher profile first.
func (s *AccountService) TeacherStatsForUser(ctx context.Context, userID string) (*models.TeacherStats, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.TeacherStats(ctx, profile.ID)
}

// InvalidateStats drops the cached snapshots after account-shaping writes.
func (s *AccountService) InvalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "stats:*")
	}
}
