package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/service"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments     *service.EnrollmentService
	defaultSemester models.Semester
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, defaultSemester models.Semester) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, defaultSemester: defaultSemester}
}

// List returns enrollments matching the query filters.
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.StudentID = c.Query("studentId")
	filter.CourseCode = strings.ToUpper(c.Query("courseCode"))
	if semester := c.Query("semester"); semester != "" {
		parsed, err := models.ParseSemester(semester)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
			return
		}
		filter.Semester = parsed
	}
	switch strings.ToLower(c.Query("graded")) {
	case "true":
		graded := true
		filter.Graded = &graded
	case "false":
		graded := false
		filter.Graded = &graded
	}
	filter.ActiveOnly = strings.ToLower(c.DefaultQuery("active", "true")) == "true"

	enrollments, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Create enrolls a student into a course for a semester.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Delete withdraws the active enrollment identified by the triple in the body.
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	var req service.UnenrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	removed, err := h.enrollments.Unenroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	response.NoContent(c)
}

// StudentEnrollments lists a student's active enrollments in enrollment order.
func (h *EnrollmentHandler) StudentEnrollments(c *gin.Context) {
	enrollments, err := h.enrollments.StudentEnrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Credits reports a student's enrolled credits for a semester together with
// the cap in force.
func (h *EnrollmentHandler) Credits(c *gin.Context) {
	semester := h.defaultSemester
	if raw := c.Query("semester"); raw != "" {
		parsed, err := models.ParseSemester(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
			return
		}
		semester = parsed
	}
	credits, err := h.enrollments.CurrentSemesterCredits(c.Request.Context(), c.Param("id"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"student_id": c.Param("id"),
		"semester":   semester,
		"credits":    credits,
		"max":        h.enrollments.MaxCredits(),
	}, nil)
}
