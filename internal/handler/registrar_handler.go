package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// RegistrarHandler wires the registrar endpoints.
type RegistrarHandler struct {
	roster    *service.RosterService
	schedule  *service.ScheduleService
	grades    *service.GradeService
	requests  *service.RequestService
	documents *service.DocumentService
}

// NewRegistrarHandler creates a new handler.
func NewRegistrarHandler(roster *service.RosterService, schedule *service.ScheduleService, grades *service.GradeService, requests *service.RequestService, documents *service.DocumentService) *RegistrarHandler {
	return &RegistrarHandler{roster: roster, schedule: schedule, grades: grades, requests: requests, documents: documents}
}

// ListStudents godoc
// @Summary List students
// @Description Every student profile
// @Tags Registrar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /registrar/students [get]
func (h *RegistrarHandler) ListStudents(c *gin.Context) {
	students, err := h.roster.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// UpdateStudent godoc
// @Summary Update a student record
// @Description Edit the academic fields of a student profile
// @Tags Registrar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student profile ID"
// @Param payload body models.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registrar/students/{id} [put]
func (h *RegistrarHandler) UpdateStudent(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	profile, err := h.roster.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// CreateSchedule godoc
// @Summary Create a teaching schedule
// @Description Assign a course load after teacher and room conflict checks
// @Tags Registrar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCourseLoadRequest true "Course load payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrar/schedules [post]
func (h *RegistrarHandler) CreateSchedule(c *gin.Context) {
	var req models.CreateCourseLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course load payload"))
		return
	}

	load, err := h.schedule.AssignLoad(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, load)
}

// PendingGrades godoc
// @Summary Grades awaiting disposition
// @Tags Registrar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /registrar/grades [get]
func (h *RegistrarHandler) PendingGrades(c *gin.Context) {
	grades, err := h.grades.PendingGrades(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grades, nil)
}

// DisposeGrade godoc
// @Summary Dispose a grade
// @Description Move a grade to Approved, Rejected or Locked
// @Tags Registrar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Param payload body models.DisposeGradeRequest true "Disposition payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrar/grades/{id} [put]
func (h *RegistrarHandler) DisposeGrade(c *gin.Context) {
	var req models.DisposeGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid disposition payload"))
		return
	}

	grade, err := h.grades.Dispose(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grade, nil)
}

// PendingRequests godoc
// @Summary Requests awaiting resolution
// @Tags Registrar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /registrar/requests [get]
func (h *RegistrarHandler) PendingRequests(c *gin.Context) {
	requests, err := h.requests.PendingRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// ResolveRequest godoc
// @Summary Resolve a document request
// @Description Apply a terminal outcome to a pending request
// @Tags Registrar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body models.ResolveRequestRequest true "Resolution payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrar/requests/{id} [put]
func (h *RegistrarHandler) ResolveRequest(c *gin.Context) {
	var req models.ResolveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resolution payload"))
		return
	}

	request, err := h.requests.Resolve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

// UploadDocument godoc
// @Summary Upload a document
// @Description Store a registrar file with its metadata
// @Tags Registrar
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Document title"
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrar/documents [post]
func (h *RegistrarHandler) UploadDocument(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(
		c.Request.Context(),
		user.ID,
		c.PostForm("title"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, doc)
}

// ListDocuments godoc
// @Summary List documents
// @Tags Registrar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /registrar/documents [get]
func (h *RegistrarHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.Documents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, docs, nil)
}
