package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/service"
	"github.com/opencampus/records-api/pkg/response"
)

// DeanHandler wires the academic dean oversight endpoints.
type DeanHandler struct {
	grades   *service.GradeService
	schedule *service.ScheduleService
}

// NewDeanHandler creates a new handler.
func NewDeanHandler(grades *service.GradeService, schedule *service.ScheduleService) *DeanHandler {
	return &DeanHandler{grades: grades, schedule: schedule}
}

// AllGrades godoc
// @Summary All grades
// @Description Every grade row for institution-wide oversight
// @Tags Dean
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dean/grades [get]
func (h *DeanHandler) AllGrades(c *gin.Context) {
	grades, err := h.grades.AllGrades(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grades, nil)
}

// AllLoads godoc
// @Summary All course loads
// @Description Every teaching assignment with subject details
// @Tags Dean
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dean/course-loads [get]
func (h *DeanHandler) AllLoads(c *gin.Context) {
	loads, err := h.schedule.AllLoads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, loads, nil)
}

// Subjects godoc
// @Summary Curriculum subjects
// @Description The subject catalog for curriculum review
// @Tags Dean
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dean/subjects [get]
func (h *DeanHandler) Subjects(c *gin.Context) {
	subjects, err := h.schedule.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subjects, nil)
}
