package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/service"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// TranscriptHandler exposes transcript generation and download endpoints.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

// Get returns the transcript, optionally restricted to one semester.
func (h *TranscriptHandler) Get(c *gin.Context) {
	semester, ok := h.semesterQuery(c)
	if !ok {
		return
	}
	var transcript *models.Transcript
	var err error
	if semester != "" {
		transcript, err = h.transcripts.GenerateSemesterTranscript(c.Request.Context(), c.Param("id"), semester)
	} else {
		transcript, err = h.transcripts.GenerateTranscript(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil)
}

// Export streams the transcript as a CSV or PDF download.
func (h *TranscriptHandler) Export(c *gin.Context) {
	semester, ok := h.semesterQuery(c)
	if !ok {
		return
	}
	format := service.TranscriptFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	payload, filename, err := h.transcripts.Export(c.Request.Context(), c.Param("id"), semester, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv"
	if format == service.TranscriptFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *TranscriptHandler) semesterQuery(c *gin.Context) (models.Semester, bool) {
	raw := c.Query("semester")
	if raw == "" {
		return "", true
	}
	semester, err := models.ParseSemester(raw)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
		return "", false
	}
	return semester, true
}
