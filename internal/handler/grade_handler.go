package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/service"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// GradeHandler exposes grade recording and GPA endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// RecordScore records a percentage score and its derived letter grade.
func (h *GradeHandler) RecordScore(c *gin.Context) {
	var req service.RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	recorded, err := h.grades.RecordScore(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !recorded {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"recorded": true}, nil)
}

// RecordLetter records a letter grade directly.
func (h *GradeHandler) RecordLetter(c *gin.Context) {
	var req service.RecordLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	recorded, err := h.grades.RecordLetter(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !recorded {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"recorded": true}, nil)
}

// GPA reports the student's current credit-weighted grade-point average.
func (h *GradeHandler) GPA(c *gin.Context) {
	gpa, credits, err := h.grades.CalculateGPA(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"student_id":    c.Param("id"),
		"gpa":           gpa,
		"total_credits": credits,
	}, nil)
}
