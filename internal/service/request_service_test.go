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

type mockRequestRepo struct {
	requestsByID map[string]*models.DocumentRequest
	created      []*models.DocumentRequest
	resolveErr   error
	resolved     []models.RequestStatus
	findCalls    int
	rereadStatus models.RequestStatus
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requestsByID: make(map[string]*models.DocumentRequest)}
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.DocumentRequest) error {
	m.created = append(m.created, request)
	return nil
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*models.DocumentRequest, error) {
	request, ok := m.requestsByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	m.findCalls++
	row := *request
	if m.findCalls > 1 && m.rereadStatus != "" {
		row.Status = m.rereadStatus
	}
	return &row, nil
}

func (m *mockRequestRepo) Resolve(ctx context.Context, id string, status models.RequestStatus) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	m.resolved = append(m.resolved, status)
	m.requestsByID[id].Status = status
	return nil
}

func (m *mockRequestRepo) ListByUser(ctx context.Context, userID string) ([]models.DocumentRequest, error) {
	var out []models.DocumentRequest
	for _, req := range m.requestsByID {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *mockRequestRepo) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.DocumentRequest, error) {
	var out []models.DocumentRequest
	for _, req := range m.requestsByID {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func newRequestService(requests *mockRequestRepo, profiles *mockProfileRepo) *RequestService {
	return NewRequestService(requests, profiles, validator.New(), zap.NewNop(), nil)
}

func TestRequestServiceFile(t *testing.T) {
	requests := newMockRequestRepo()
	profiles := newMockProfileRepo()
	profiles.add(&models.Profile{ID: "st1", UserID: "u1", Role: models.RoleStudent, FirstName: "Jordan", LastName: "Reyes"})
	svc := newRequestService(requests, profiles)

	request, err := svc.File(context.Background(), "u1", models.CreateRequestRequest{RequestType: models.RequestTypeTOR})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, "Jordan Reyes", request.StudentName)
	require.Len(t, requests.created, 1)
}

func TestRequestServiceFileFiresChangeHook(t *testing.T) {
	requests := newMockRequestRepo()
	profiles := newMockProfileRepo()
	profiles.add(&models.Profile{ID: "st1", UserID: "u1", Role: models.RoleStudent})
	var changes int
	svc := NewRequestService(requests, profiles, validator.New(), zap.NewNop(), func(context.Context) {
		changes++
	})

	_, err := svc.File(context.Background(), "u1", models.CreateRequestRequest{RequestType: models.RequestTypeCOG})
	require.NoError(t, err)
	assert.Equal(t, 1, changes)
}

func TestRequestServiceFileUnknownType(t *testing.T) {
	svc := newRequestService(newMockRequestRepo(), newMockProfileRepo())

	_, err := svc.File(context.Background(), "u1", models.CreateRequestRequest{RequestType: "Diploma"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceFileMissingProfile(t *testing.T) {
	svc := newRequestService(newMockRequestRepo(), newMockProfileRepo())

	_, err := svc.File(context.Background(), "u1", models.CreateRequestRequest{RequestType: models.RequestTypeCOG})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceResolve(t *testing.T) {
	requests := newMockRequestRepo()
	requests.requestsByID["r1"] = &models.DocumentRequest{ID: "r1", UserID: "u1", Status: models.RequestPending}
	svc := newRequestService(requests, newMockProfileRepo())

	request, err := svc.Resolve(context.Background(), "r1", models.ResolveRequestRequest{Status: models.RequestApproved})
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, request.Status)
	assert.Equal(t, []models.RequestStatus{models.RequestApproved}, requests.resolved)
}

func TestRequestServiceResolveAlreadyResolved(t *testing.T) {
	requests := newMockRequestRepo()
	requests.requestsByID["r1"] = &models.DocumentRequest{ID: "r1", UserID: "u1", Status: models.RequestRejected}
	svc := newRequestService(requests, newMockProfileRepo())

	_, err := svc.Resolve(context.Background(), "r1", models.ResolveRequestRequest{Status: models.RequestApproved})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, typed.Code)
	assert.Contains(t, typed.Message, "already Rejected")
	assert.Empty(t, requests.resolved)
}

func TestRequestServiceResolvePendingIsNotAResolution(t *testing.T) {
	requests := newMockRequestRepo()
	requests.requestsByID["r1"] = &models.DocumentRequest{ID: "r1", UserID: "u1", Status: models.RequestPending}
	svc := newRequestService(requests, newMockProfileRepo())

	_, err := svc.Resolve(context.Background(), "r1", models.ResolveRequestRequest{Status: models.RequestPending})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceResolveLostRaceReportsWinner(t *testing.T) {
	requests := newMockRequestRepo()
	requests.requestsByID["r1"] = &models.DocumentRequest{ID: "r1", UserID: "u1", Status: models.RequestPending}
	requests.resolveErr = sql.ErrNoRows
	requests.rereadStatus = models.RequestApproved
	svc := newRequestService(requests, newMockProfileRepo())

	_, err := svc.Resolve(context.Background(), "r1", models.ResolveRequestRequest{Status: models.RequestRejected})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, typed.Code)
	assert.Contains(t, typed.Message, "already Approved")
}

func TestRequestServiceResolveUnknownRequest(t *testing.T) {
	svc := newRequestService(newMockRequestRepo(), newMockProfileRepo())

	_, err := svc.Resolve(context.Background(), "missing", models.ResolveRequestRequest{Status: models.RequestApproved})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
