package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/jobs"
)

type mockAttendanceRepo struct {
	created   []*models.AttendanceRecord
	byStudent []models.AttendanceRecord
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	m.created = append(m.created, record)
	return nil
}

func (m *mockAttendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	return m.byStudent, nil
}

type mockSubjectLookup struct {
	subjectsByID map[string]*models.Subject
}

func (m *mockSubjectLookup) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	subject, ok := m.subjectsByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return subject, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	emails []string
}

func (n *recordingNotifier) SendEmail(ctx context.Context, to, subject, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, to+": "+message)
	return nil
}

func (n *recordingNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.emails...)
}

func attendanceFixtures(t *testing.T) (*mockAttendanceRepo, *AttendanceService, *recordingNotifier) {
	t.Helper()
	records := &mockAttendanceRepo{}
	loads := &mockGradeLoadRepo{loadsByID: map[string]*models.CourseLoad{
		"l1": {ID: "l1", TeacherID: "t1", SubjectID: "s1"},
	}}
	profiles := newMockProfileRepo()
	profiles.add(&models.Profile{ID: "t1", UserID: "ut1", Role: models.RoleTeacher})
	profiles.add(&models.Profile{ID: "st1", UserID: "us1", Role: models.RoleStudent, FirstName: "Jordan", LastName: "Reyes", Email: "jordan@example.com"})
	subjects := &mockSubjectLookup{subjectsByID: map[string]*models.Subject{
		"s1": {ID: "s1", SubjectCode: "CS101", SubjectName: "Introduction to Computing"},
	}}

	notifier := &recordingNotifier{}
	notify := NewNotificationService(notifier, jobs.QueueConfig{Workers: 1}, zap.NewNop())
	notify.Start(context.Background())
	t.Cleanup(notify.Stop)

	svc := NewAttendanceService(records, loads, profiles, subjects, notify, validator.New(), zap.NewNop())
	return records, svc, notifier
}

func attendanceRequest(status string) models.RecordAttendanceRequest {
	return models.RecordAttendanceRequest{
		LoadID:    "l1",
		StudentID: "st1",
		Date:      "2026-08-31",
		Status:    status,
	}
}

func TestAttendanceServiceMarkPresent(t *testing.T) {
	records, svc, notifier := attendanceFixtures(t)

	record, err := svc.Mark(context.Background(), "t1", attendanceRequest(models.AttendancePresent))
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	require.Len(t, records.created, 1)
	assert.Empty(t, notifier.sent())
}

func TestAttendanceServiceMarkAbsentQueuesAlert(t *testing.T) {
	_, svc, notifier := attendanceFixtures(t)

	_, err := svc.Mark(context.Background(), "t1", attendanceRequest(models.AttendanceAbsent))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(notifier.sent()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	sent := notifier.sent()[0]
	assert.Contains(t, sent, "jordan@example.com")
	assert.Contains(t, sent, "Jordan Reyes was marked absent in Introduction to Computing on 2026-08-31.")
}

func TestAttendanceServiceMarkForeignLoad(t *testing.T) {
	records, svc, _ := attendanceFixtures(t)

	_, err := svc.Mark(context.Background(), "someone-else", attendanceRequest(models.AttendanceLate))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, records.created)
}

func TestAttendanceServiceMarkBadStatus(t *testing.T) {
	_, svc, _ := attendanceFixtures(t)

	_, err := svc.Mark(context.Background(), "t1", attendanceRequest("Excused"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceMarkForUser(t *testing.T) {
	records, svc, _ := attendanceFixtures(t)

	record, err := svc.MarkForUser(context.Background(), "ut1", attendanceRequest(models.AttendanceLate))
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, record.Status)
	require.Len(t, records.created, 1)
}

func TestAttendanceServiceHistoryForUser(t *testing.T) {
	records, svc, _ := attendanceFixtures(t)
	records.byStudent = []models.AttendanceRecord{{ID: "a1", StudentID: "st1", Status: models.AttendancePresent}}

	history, err := svc.HistoryForUser(context.Background(), "us1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a1", history[0].ID)
}
