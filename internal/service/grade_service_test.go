package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type mockGradeRepo struct {
	gradesByID      map[string]*models.Grade
	created         []*models.Grade
	tripleCount     int
	updateStatusErr error
	updates         []models.GradeStatus
	byStudent       []models.StudentGrade
	byStatus        []models.Grade
	findCalls       int
	rereadStatus    models.GradeStatus
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{gradesByID: make(map[string]*models.Grade)}
}

func (m *mockGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	m.created = append(m.created, grade)
	return nil
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	grade, ok := m.gradesByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	m.findCalls++
	row := *grade
	// rereadStatus stands in for a concurrent writer that moved the row
	// between the first read and any later one.
	if m.findCalls > 1 && m.rereadStatus != "" {
		row.Status = m.rereadStatus
	}
	return &row, nil
}

func (m *mockGradeRepo) UpdateStatus(ctx context.Context, id string, from, to models.GradeStatus) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.updates = append(m.updates, to)
	m.gradesByID[id].Status = to
	return nil
}

func (m *mockGradeRepo) CountByTriple(ctx context.Context, loadID, studentID, period string) (int, error) {
	return m.tripleCount, nil
}

func (m *mockGradeRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentGrade, error) {
	return m.byStudent, nil
}

func (m *mockGradeRepo) ListByStatus(ctx context.Context, status models.GradeStatus) ([]models.Grade, error) {
	return m.byStatus, nil
}

func (m *mockGradeRepo) ListAll(ctx context.Context) ([]models.Grade, error) {
	return m.byStatus, nil
}

func (m *mockGradeRepo) ListByProgram(ctx context.Context, program string) ([]models.StudentGrade, error) {
	return m.byStudent, nil
}

type mockGradeLoadRepo struct {
	loadsByID map[string]*models.CourseLoad
}

func (m *mockGradeLoadRepo) FindByID(ctx context.Context, id string) (*models.CourseLoad, error) {
	load, ok := m.loadsByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return load, nil
}

func gradeFixtures() (*mockGradeRepo, *mockGradeLoadRepo, *mockProfileRepo) {
	grades := newMockGradeRepo()
	loads := &mockGradeLoadRepo{loadsByID: map[string]*models.CourseLoad{
		"l1": {ID: "l1", TeacherID: "t1", SubjectID: "s1"},
	}}
	profiles := newMockProfileRepo()
	profiles.add(&models.Profile{ID: "t1", UserID: "ut1", Role: models.RoleTeacher})
	profiles.add(&models.Profile{ID: "st1", UserID: "us1", Role: models.RoleStudent})
	return grades, loads, profiles
}

func newGradeService(grades *mockGradeRepo, loads *mockGradeLoadRepo, profiles *mockProfileRepo, config GradeConfig) *GradeService {
	return NewGradeService(grades, loads, profiles, validator.New(), zap.NewNop(), config)
}

func submitRequest() models.SubmitGradeRequest {
	return models.SubmitGradeRequest{
		LoadID:        "l1",
		StudentID:     "st1",
		GradingPeriod: models.PeriodMidterm,
		Score:         88.5,
	}
}

func TestGradeServiceSubmit(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	grade, err := svc.Submit(context.Background(), "t1", submitRequest())
	require.NoError(t, err)
	assert.Equal(t, models.GradeSubmitted, grade.Status)
	assert.Equal(t, 88.5, grade.Score)
	require.Len(t, grades.created, 1)
}

func TestGradeServiceSubmitForeignLoad(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	_, err := svc.Submit(context.Background(), "someone-else", submitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, grades.created)
}

func TestGradeServiceSubmitNonStudentTarget(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	req := submitRequest()
	req.StudentID = "t1"
	_, err := svc.Submit(context.Background(), "t1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceSubmitRepeatRefused(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.tripleCount = 1
	svc := newGradeService(grades, loads, profiles, GradeConfig{AllowResubmission: false})

	_, err := svc.Submit(context.Background(), "t1", submitRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceSubmitResubmissionAllowed(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.tripleCount = 1
	svc := newGradeService(grades, loads, profiles, GradeConfig{AllowResubmission: true})

	_, err := svc.Submit(context.Background(), "t1", submitRequest())
	require.NoError(t, err)
	require.Len(t, grades.created, 1)
}

func TestGradeServiceSubmitInvalidPeriod(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	req := submitRequest()
	req.GradingPeriod = "Quarterly"
	_, err := svc.Submit(context.Background(), "t1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceDisposeApprove(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.gradesByID["g1"] = &models.Grade{ID: "g1", Status: models.GradeSubmitted}
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	grade, err := svc.Dispose(context.Background(), "g1", models.DisposeGradeRequest{Status: models.GradeApproved})
	require.NoError(t, err)
	assert.Equal(t, models.GradeApproved, grade.Status)
	assert.Equal(t, []models.GradeStatus{models.GradeApproved}, grades.updates)
}

func TestGradeServiceDisposeLockedIsTerminal(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.gradesByID["g1"] = &models.Grade{ID: "g1", Status: models.GradeLocked}
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	_, err := svc.Dispose(context.Background(), "g1", models.DisposeGradeRequest{Status: models.GradeApproved})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, typed.Code)
	assert.Contains(t, typed.Message, "from Locked")
}

func TestGradeServiceDisposeSubmittedIsNotATarget(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.gradesByID["g1"] = &models.Grade{ID: "g1", Status: models.GradeApproved}
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	_, err := svc.Dispose(context.Background(), "g1", models.DisposeGradeRequest{Status: models.GradeSubmitted})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceDisposeRejectedThenLock(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.gradesByID["g1"] = &models.Grade{ID: "g1", Status: models.GradeRejected}
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	grade, err := svc.Dispose(context.Background(), "g1", models.DisposeGradeRequest{Status: models.GradeLocked})
	require.NoError(t, err)
	assert.Equal(t, models.GradeLocked, grade.Status)
}

func TestGradeServiceDisposeLostRaceReportsWinner(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	grades.gradesByID["g1"] = &models.Grade{ID: "g1", Status: models.GradeSubmitted}
	grades.updateStatusErr = sql.ErrNoRows
	grades.rereadStatus = models.GradeRejected
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	_, err := svc.Dispose(context.Background(), "g1", models.DisposeGradeRequest{Status: models.GradeApproved})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, typed.Code)
	assert.Contains(t, typed.Message, "from Rejected to Approved")
}

func TestGradeServiceDisposeUnknownGrade(t *testing.T) {
	grades, loads, profiles := gradeFixtures()
	svc := newGradeService(grades, loads, profiles, GradeConfig{})

	_, err := svc.Dispose(context.Background(), "missing", models.DisposeGradeRequest{Status: models.GradeApproved})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
