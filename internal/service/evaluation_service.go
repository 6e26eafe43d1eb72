package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/repository"
	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type evaluationRepository interface {
	Exists(ctx context.Context, studentID, teacherID, loadID string) (bool, error)
	Create(ctx context.Context, eval *models.Evaluation) error
	ListAll(ctx context.Context) ([]models.Evaluation, error)
	CreatePeriod(ctx context.Context, period *models.EvaluationPeriod) error
	ListPeriods(ctx context.Context) ([]models.EvaluationPeriod, error)
	CreateQuestion(ctx context.Context, question *models.EvaluationQuestion) error
	ListActiveQuestions(ctx context.Context) ([]models.EvaluationQuestion, error)
}

type evaluationProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// EvaluationService records teacher evaluations and the HR questionnaire
// surface.
type EvaluationService struct {
	evals     evaluationRepository
	profiles  evaluationProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewEvaluationService(evals evaluationRepository, profiles evaluationProfileRepository, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EvaluationService{evals: evals, profiles: profiles, validator: validate, logger: logger}
}

// Submit records an evaluation for a teacher. One evaluation per
// (student, teacher, load) triple: the optimistic check gives a friendly
// error and the unique index catches the race it cannot.
func (s *EvaluationService) Submit(ctx context.Context, userID string, req models.SubmitEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}

	student, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}

	teacher, err := s.profiles.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "evaluation target is not a teacher")
	}

	exists, err := s.evals.Exists(ctx, student.ID, req.TeacherID, req.LoadID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check prior evaluation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEvaluation, "teacher already evaluated for this course")
	}

	eval := &models.Evaluation{
		StudentID: student.ID,
		TeacherID: req.TeacherID,
		LoadID:    req.LoadID,
		Q1Score:   req.Q1Score,
		Q2Score:   req.Q2Score,
		Q3Score:   req.Q3Score,
		Q4Score:   req.Q4Score,
		Q5Score:   req.Q5Score,
		Comment:   req.Comment,
	}
	if err := s.evals.Create(ctx, eval); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEvaluation, "teacher already evaluated for this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create evaluation")
	}
	s.logger.Info("evaluation submitted",
		zap.String("student_id", student.ID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("load_id", req.LoadID))
	return eval, nil
}

// AllEvaluations lists every evaluation for HR review.
func (s *EvaluationService) AllEvaluations(ctx context.Context) ([]models.Evaluation, error) {
	evals, err := s.evals.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	return evals, nil
}

// OpenPeriod creates an HR evaluation window.
func (s *EvaluationService) OpenPeriod(ctx context.Context, req models.CreateEvaluationPeriodRequest) (*models.EvaluationPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	period := &models.EvaluationPeriod{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := s.evals.CreatePeriod(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return period, nil
}

// Periods lists all evaluation windows.
func (s *EvaluationService) Periods(ctx context.Context) ([]models.EvaluationPeriod, error) {
	periods, err := s.evals.ListPeriods(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// AddQuestion creates a questionnaire item. New items default to active.
func (s *EvaluationService) AddQuestion(ctx context.Context, req models.CreateEvaluationQuestionRequest) (*models.EvaluationQuestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	question := &models.EvaluationQuestion{Text: req.Text, Active: true}
	if req.Active != nil {
		question.Active = *req.Active
	}
	if err := s.evals.CreateQuestion(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	return question, nil
}

// ActiveQuestions lists the questionnaire shown to students.
func (s *EvaluationService) ActiveQuestions(ctx context.Context) ([]models.EvaluationQuestion, error) {
	questions, err := s.evals.ListActiveQuestions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return questions, nil
}
