package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

type mockAccountUserRepo struct {
	users     []models.User
	total     int
	deleteErr error
	deleted   []string
	auditLogs []*models.AuditLog
}

func (m *mockAccountUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	return m.users, m.total, nil
}

func (m *mockAccountUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockAccountUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockAccountProfileRepo struct {
	profilesByUser map[string]*models.Profile
	countsByRole   map[models.UserRole]int
}

func (m *mockAccountProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	profile, ok := m.profilesByUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

func (m *mockAccountProfileRepo) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	return m.countsByRole[role], nil
}

type mockSubjectCounter struct{ count int }

func (m *mockSubjectCounter) Count(ctx context.Context) (int, error) { return m.count, nil }

type mockRequestCounter struct{ pending int }

func (m *mockRequestCounter) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	return m.pending, nil
}

type mockLoadCounter struct{ count int }

func (m *mockLoadCounter) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	return m.count, nil
}

type accountFixture struct {
	users    *mockAccountUserRepo
	profiles *mockAccountProfileRepo
	subjects *mockSubjectCounter
	requests *mockRequestCounter
	loads    *mockLoadCounter
	cache    *memoryCacheRepo
	svc      *AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users: &mockAccountUserRepo{},
		profiles: &mockAccountProfileRepo{
			profilesByUser: make(map[string]*models.Profile),
			countsByRole:   make(map[models.UserRole]int),
		},
		subjects: &mockSubjectCounter{},
		requests: &mockRequestCounter{},
		loads:    &mockLoadCounter{},
		cache:    newMemoryCacheRepo(),
	}
	cacheSvc := NewCacheService(f.cache, zap.NewNop(), nil, true, time.Minute)
	f.svc = NewAccountService(f.users, f.profiles, f.subjects, f.requests, f.loads, cacheSvc, zap.NewNop())
	return f
}

func TestAccountServiceListUsersEnrichesProfiles(t *testing.T) {
	f := newAccountFixture()
	f.users.users = []models.User{
		{ID: "u1", Email: "student@example.com", Role: models.RoleStudent},
		{ID: "u2", Email: "admin@example.com", Role: models.RoleAdmin},
	}
	f.users.total = 2
	f.profiles.profilesByUser["u1"] = &models.Profile{ID: "st1", UserID: "u1", Role: models.RoleStudent}

	enriched, pagination, err := f.svc.ListUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, enriched, 2)
	require.NotNil(t, enriched[0].Profile)
	assert.Equal(t, "st1", enriched[0].Profile.ID)
	assert.Nil(t, enriched[1].Profile)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}

func TestAccountServiceListUsersClampsPaging(t *testing.T) {
	f := newAccountFixture()

	_, pagination, err := f.svc.ListUsers(context.Background(), 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestAccountServiceDeleteUser(t *testing.T) {
	f := newAccountFixture()
	f.cache.entries["stats:admin"] = []byte(`{}`)

	err := f.svc.DeleteUser(context.Background(), "admin1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, f.users.deleted)
	require.Len(t, f.users.auditLogs, 1)
	assert.Equal(t, models.AuditActionDelete, f.users.auditLogs[0].Action)
	assert.NotContains(t, f.cache.entries, "stats:admin")
}

func TestAccountServiceDeleteUserNotFound(t *testing.T) {
	f := newAccountFixture()
	f.users.deleteErr = sql.ErrNoRows

	err := f.svc.DeleteUser(context.Background(), "admin1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.users.auditLogs)
}

func TestAccountServiceStatsCaches(t *testing.T) {
	f := newAccountFixture()
	f.profiles.countsByRole[models.RoleStudent] = 120
	f.profiles.countsByRole[models.RoleTeacher] = 15
	f.subjects.count = 40
	f.requests.pending = 7

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalStudents)
	assert.Equal(t, 15, stats.TotalTeachers)
	assert.Equal(t, 40, stats.TotalSubjects)
	assert.Equal(t, 7, stats.PendingRequests)

	// A warm cache serves the snapshot even after the counts move.
	f.profiles.countsByRole[models.RoleStudent] = 999
	stats, err = f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalStudents)

	// Invalidation forces a recompute.
	f.svc.InvalidateStats(context.Background())
	stats, err = f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 999, stats.TotalStudents)
}

func TestAccountServiceTeacherStatsForUser(t *testing.T) {
	f := newAccountFixture()
	f.profiles.profilesByUser["ut1"] = &models.Profile{ID: "t1", UserID: "ut1", Role: models.RoleTeacher}
	f.profiles.countsByRole[models.RoleStudent] = 80
	f.loads.count = 4

	stats, err := f.svc.TeacherStatsForUser(context.Background(), "ut1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalCourses)
	assert.Equal(t, 80, stats.TotalStudents)
}

func TestAccountServiceTeacherStatsForUserMissingProfile(t *testing.T) {
	f := newAccountFixture()

	_, err := f.svc.TeacherStatsForUser(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
