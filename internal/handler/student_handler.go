package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// StudentHandler wires the student endpoints.
type StudentHandler struct {
	grades      *service.GradeService
	attendance  *service.AttendanceService
	requests    *service.RequestService
	evaluations *service.EvaluationService
	ledger      *service.LedgerService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(grades *service.GradeService, attendance *service.AttendanceService, requests *service.RequestService, evaluations *service.EvaluationService, ledger *service.LedgerService) *StudentHandler {
	return &StudentHandler{grades: grades, attendance: attendance, requests: requests, evaluations: evaluations, ledger: ledger}
}

// MyGrades godoc
// @Summary My grades
// @Description The caller's grades with subject details
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/grades [get]
func (h *StudentHandler) MyGrades(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grades, err := h.grades.GradesForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grades, nil)
}

// MyAttendance godoc
// @Summary My attendance
// @Description The caller's attendance history
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/attendance [get]
func (h *StudentHandler) MyAttendance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.attendance.HistoryForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// FileRequest godoc
// @Summary File a document request
// @Description Create a pending administrative request
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/requests [post]
func (h *StudentHandler) FileRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	request, err := h.requests.File(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// MyRequests godoc
// @Summary My document requests
// @Description Requests filed by the caller
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/requests [get]
func (h *StudentHandler) MyRequests(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.requests.RequestsForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// SubmitEvaluation godoc
// @Summary Evaluate a teacher
// @Description Record a one-time evaluation for a teacher and course
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SubmitEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/evaluations [post]
func (h *StudentHandler) SubmitEvaluation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation payload"))
		return
	}

	eval, err := h.evaluations.Submit(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, eval)
}

// MyBalance godoc
// @Summary My balance
// @Description The caller's ledger position
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/balance [get]
func (h *StudentHandler) MyBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	balance, err := h.ledger.BalanceForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, balance, nil)
}
