package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/service"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// InstructorHandler exposes the instructor directory endpoints.
type InstructorHandler struct {
	instructors *service.InstructorService
}

// NewInstructorHandler constructs InstructorHandler.
func NewInstructorHandler(instructors *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors}
}

// List returns all instructors.
func (h *InstructorHandler) List(c *gin.Context) {
	instructors, err := h.instructors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Create registers an instructor.
func (h *InstructorHandler) Create(c *gin.Context) {
	var req service.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.instructors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Get returns a single instructor.
func (h *InstructorHandler) Get(c *gin.Context) {
	instructor, err := h.instructors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}
