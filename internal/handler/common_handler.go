package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/service"
	"github.com/opencampus/records-api/pkg/response"
)

// CommonHandler wires endpoints shared by every authenticated role.
type CommonHandler struct {
	schedule    *service.ScheduleService
	roster      *service.RosterService
	evaluations *service.EvaluationService
}

// NewCommonHandler creates a new handler.
func NewCommonHandler(schedule *service.ScheduleService, roster *service.RosterService, evaluations *service.EvaluationService) *CommonHandler {
	return &CommonHandler{schedule: schedule, roster: roster, evaluations: evaluations}
}

// Subjects godoc
// @Summary Subject catalog
// @Tags Common
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CommonHandler) Subjects(c *gin.Context) {
	subjects, err := h.schedule.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subjects, nil)
}

// Teachers godoc
// @Summary Teacher directory
// @Tags Common
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CommonHandler) Teachers(c *gin.Context) {
	teachers, err := h.roster.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, teachers, nil)
}

// EvaluationQuestions godoc
// @Summary Active evaluation questionnaire
// @Tags Common
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /evaluation-questions [get]
func (h *CommonHandler) EvaluationQuestions(c *gin.Context) {
	questions, err := h.evaluations.ActiveQuestions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, questions, nil)
}

// Health godoc
// @Summary Liveness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *CommonHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
