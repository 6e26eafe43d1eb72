package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// DepartmentHandler wires the department head endpoints. All views are
// scoped to the caller's department.
type DepartmentHandler struct {
	roster *service.RosterService
	grades *service.GradeService
}

// NewDepartmentHandler creates a new handler.
func NewDepartmentHandler(roster *service.RosterService, grades *service.GradeService) *DepartmentHandler {
	return &DepartmentHandler{roster: roster, grades: grades}
}

// Students godoc
// @Summary Department students
// @Description Students whose program matches the caller's department
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /department/students [get]
func (h *DepartmentHandler) Students(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	students, err := h.roster.StudentsForDepartment(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// Grades godoc
// @Summary Department grades
// @Description Grades of students in the caller's department
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /department/grades [get]
func (h *DepartmentHandler) Grades(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grades, err := h.grades.GradesForDepartment(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grades, nil)
}
