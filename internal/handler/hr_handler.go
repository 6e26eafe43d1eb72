package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// HRHandler wires the HR endpoints.
type HRHandler struct {
	evaluations *service.EvaluationService
	roster      *service.RosterService
}

// NewHRHandler creates a new handler.
func NewHRHandler(evaluations *service.EvaluationService, roster *service.RosterService) *HRHandler {
	return &HRHandler{evaluations: evaluations, roster: roster}
}

// Teachers godoc
// @Summary Teacher directory
// @Tags HR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hr/teachers [get]
func (h *HRHandler) Teachers(c *gin.Context) {
	teachers, err := h.roster.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, teachers, nil)
}

// Evaluations godoc
// @Summary All evaluations
// @Tags HR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hr/evaluations [get]
func (h *HRHandler) Evaluations(c *gin.Context) {
	evals, err := h.evaluations.AllEvaluations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, evals, nil)
}

// OpenPeriod godoc
// @Summary Open an evaluation period
// @Tags HR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateEvaluationPeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /hr/evaluation-periods [post]
func (h *HRHandler) OpenPeriod(c *gin.Context) {
	var req models.CreateEvaluationPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid period payload"))
		return
	}

	period, err := h.evaluations.OpenPeriod(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, period)
}

// Periods godoc
// @Summary List evaluation periods
// @Tags HR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hr/evaluation-periods [get]
func (h *HRHandler) Periods(c *gin.Context) {
	periods, err := h.evaluations.Periods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, periods, nil)
}

// AddQuestion godoc
// @Summary Add a questionnaire item
// @Tags HR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateEvaluationQuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /hr/evaluation-questions [post]
func (h *HRHandler) AddQuestion(c *gin.Context) {
	var req models.CreateEvaluationQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}

	question, err := h.evaluations.AddQuestion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, question)
}

// Questions godoc
// @Summary Active questionnaire items
// @Tags HR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hr/evaluation-questions [get]
func (h *HRHandler) Questions(c *gin.Context) {
	questions, err := h.evaluations.ActiveQuestions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, questions, nil)
}
