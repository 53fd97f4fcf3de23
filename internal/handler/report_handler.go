package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/service"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// ReportHandler exposes the registry statistics endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GPADistribution returns the active-student GPA band counts.
func (h *ReportHandler) GPADistribution(c *gin.Context) {
	dist, err := h.reports.GPADistribution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}

// SemesterStatistics returns enrollment counts per semester in order.
func (h *ReportHandler) SemesterStatistics(c *gin.Context) {
	stats, err := h.reports.SemesterStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// CoursePopularity returns courses ranked by active enrollments.
func (h *ReportHandler) CoursePopularity(c *gin.Context) {
	ranking, err := h.reports.CoursePopularity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// TopStudents returns the highest-GPA active students.
func (h *ReportHandler) TopStudents(c *gin.Context) {
	limit := 10
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		limit = parsed
	}
	students, err := h.reports.TopStudents(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Summary returns the registry dashboard snapshot.
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
