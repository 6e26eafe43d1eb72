package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// TeacherHandler wires the teacher endpoints.
type TeacherHandler struct {
	schedule   *service.ScheduleService
	grades     *service.GradeService
	attendance *service.AttendanceService
	accounts   *service.AccountService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(schedule *service.ScheduleService, grades *service.GradeService, attendance *service.AttendanceService, accounts *service.AccountService) *TeacherHandler {
	return &TeacherHandler{schedule: schedule, grades: grades, attendance: attendance, accounts: accounts}
}

// MyLoads godoc
// @Summary My course loads
// @Description The caller's teaching assignments with subject details
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/course-loads [get]
func (h *TeacherHandler) MyLoads(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	loads, err := h.schedule.LoadsForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, loads, nil)
}

// LoadStudents godoc
// @Summary Students in a course load
// @Description Student roster for one of the caller's assignments
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param load_id path string true "Course load ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/students/{load_id} [get]
func (h *TeacherHandler) LoadStudents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	students, err := h.schedule.StudentsForLoad(c.Request.Context(), user.ID, c.Param("load_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// SubmitGrade godoc
// @Summary Submit a grade
// @Description Record a score for a student under one of the caller's loads
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SubmitGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/grades [post]
func (h *TeacherHandler) SubmitGrade(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}

	grade, err := h.grades.SubmitForUser(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, grade)
}

// MarkAttendance godoc
// @Summary Mark attendance
// @Description Record a student's attendance for a date
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RecordAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/attendance [post]
func (h *TeacherHandler) MarkAttendance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	record, err := h.attendance.MarkForUser(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// Stats godoc
// @Summary Teacher statistics
// @Description Workload snapshot for the caller
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/stats [get]
func (h *TeacherHandler) Stats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	stats, err := h.accounts.TeacherStatsForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}
