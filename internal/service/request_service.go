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

type requestRepository interface {
	Create(ctx context.Context, request *models.DocumentRequest) error
	FindByID(ctx context.Context, id string) (*models.DocumentRequest, error)
	Resolve(ctx context.Context, id string, status models.RequestStatus) error
	ListByUser(ctx context.Context, userID string) ([]models.DocumentRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.DocumentRequest, error)
}

type requestProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// RequestService runs the document request lifecycle.
type RequestService struct {
	requests  requestRepository
	profiles  requestProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(context.Context)
}

// NewRequestService constructs a RequestService instance. onChange, when set,
// is called after every request write so dependent caches can refresh.
func NewRequestService(requests requestRepository, profiles requestProfileRepository, validate *validator.Validate, logger *zap.Logger, onChange func(context.Context)) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RequestService{requests: requests, profiles: profiles, validator: validate, logger: logger, onChange: onChange}
}

// File creates a pending request in the caller's name. The student name is
// resolved from the caller's profile at filing time and frozen on the row.
func (s *RequestService) File(ctx context.Context, userID string, req models.CreateRequestRequest) (*models.DocumentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}

	request := &models.DocumentRequest{
		UserID:      userID,
		StudentName: profile.FullName(),
		RequestType: req.RequestType,
		Status:      models.RequestPending,
		Reason:      req.Reason,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	s.logger.Info("request filed",
		zap.String("request_id", request.ID),
		zap.String("type", request.RequestType))
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return request, nil
}

// Resolve applies a terminal outcome to a pending request. Resolution is
// once-only: the update is guarded on the row still being Pending, so two
// racing resolvers cannot both win.
func (s *RequestService) Resolve(ctx context.Context, requestID string, req models.ResolveRequestRequest) (*models.DocumentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}
	if !models.ValidResolution(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a resolution", req.Status))
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve request")
	}
	if request.Status != models.RequestPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("request already %s", request.Status))
	}

	if err := s.requests.Resolve(ctx, requestID, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current, readErr := s.requests.FindByID(ctx, requestID)
			if readErr != nil {
				return nil, appErrors.Clone(appErrors.ErrInvalidState, "request resolved concurrently")
			}
			return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("request already %s", current.Status))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}

	request.Status = req.Status
	s.logger.Info("request resolved",
		zap.String("request_id", requestID),
		zap.String("status", string(req.Status)))
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return request, nil
}

// RequestsForUser lists requests filed by one identity.
func (s *RequestService) RequestsForUser(ctx context.Context, userID string) ([]models.DocumentRequest, error) {
	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// PendingRequests lists requests awaiting resolution.
func (s *RequestService) PendingRequests(ctx context.Context) ([]models.DocumentRequest, error) {
	requests, err := s.requests.ListByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return requests, nil
}
