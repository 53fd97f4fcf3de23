package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/repository"
	"github.com/campus-records/ccrm-api/internal/service"
)

func newGradeHandlerForTest(t *testing.T) *GradeHandler {
	t.Helper()
	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	enrollments := repository.NewEnrollmentRepository()

	ctx := context.Background()
	require.NoError(t, students.Create(ctx, &models.Student{ID: "s1", RegNo: "2024-001", FullName: "Ada Lovelace", Email: "ada@campus.edu", Active: true}))
	require.NoError(t, courses.Create(ctx, &models.Course{Code: "CSE101", Title: "Intro to CS", Credits: 3, Semester: models.SemesterFall2024, Active: true}))
	require.NoError(t, enrollments.Create(ctx, &models.Enrollment{StudentID: "s1", CourseCode: "CSE101", Semester: models.SemesterFall2024, Active: true}))

	svc := service.NewGradeService(enrollments, students, courses, nil, zap.NewNop(), nil)
	return NewGradeHandler(svc)
}

func TestGradeHandlerRecordScore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandlerForTest(t)

	payload, _ := json.Marshal(service.RecordScoreRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: 92.5})
	c, w := newGinContext(http.MethodPost, "/grades/score", payload)
	handler.RecordScore(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGradeHandlerRecordScoreInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandlerForTest(t)

	payload, _ := json.Marshal(service.RecordScoreRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: 120})
	c, w := newGinContext(http.MethodPost, "/grades/score", payload)
	handler.RecordScore(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradeHandlerRecordLetterMissingEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandlerForTest(t)

	payload, _ := json.Marshal(service.RecordLetterRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "SPRING_2025", Grade: "A"})
	c, w := newGinContext(http.MethodPost, "/grades/letter", payload)
	handler.RecordLetter(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradeHandlerGPA(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandlerForTest(t)

	c, w := newGinContext(http.MethodGet, "/students/s1/gpa", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	handler.GPA(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			GPA          float64 `json:"gpa"`
			TotalCredits int     `json:"total_credits"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 0.0, envelope.Data.GPA)
	require.Equal(t, 0, envelope.Data.TotalCredits)
}
