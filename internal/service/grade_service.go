package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/repository"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
)

type gradedEnrollmentStore interface {
	FindActiveByTriple(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	RecordGrade(ctx context.Context, id string, grade models.Grade, percentage float64) error
}

type derivedStudentWriter interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	SetDerived(ctx context.Context, id string, gpa float64, totalCredits int) error
}

// RecordScoreRequest records a percentage score against an enrollment.
type RecordScoreRequest struct {
	StudentID  string  `json:"student_id" validate:"required"`
	CourseCode string  `json:"course_code" validate:"required"`
	Semester   string  `json:"semester" validate:"required"`
	Percentage float64 `json:"percentage"`
}

// RecordLetterRequest records a letter grade directly.
type RecordLetterRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
	Grade      string `json:"grade" validate:"required"`
}

// GradeService converts scores to letter grades, records them on enrollments
// and keeps the student's derived GPA and credit totals current. It is the
// only writer of those derived fields.
type GradeService struct {
	enrollments gradedEnrollmentStore
	students    derivedStudentWriter
	courses     courseDirectory
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService

	mu sync.Mutex
}

// NewGradeService constructs GradeService.
func NewGradeService(enrollments gradedEnrollmentStore, students derivedStudentWriter, courses courseDirectory, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		enrollments: enrollments,
		students:    students,
		courses:     courses,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
	}
}

// RecordScore stores a percentage score and its derived letter grade on the
// active enrollment for the triple, then recomputes the student's GPA.
// A missing enrollment is a boolean outcome, not a failure.
func (s *GradeService) RecordScore(ctx context.Context, req RecordScoreRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if req.Percentage < 0.0 || req.Percentage > 100.0 {
		return false, appErrors.ErrInvalidScore
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}

	grade := models.GradeFromPercentage(req.Percentage)
	return s.record(ctx, req.StudentID, req.CourseCode, semester, grade, req.Percentage)
}

// RecordLetter stores a letter grade directly. The percentage score is reset
// to zero: the letter is the canonical representation, so no stale score is
// left behind.
func (s *GradeService) RecordLetter(ctx context.Context, req RecordLetterRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	grade, err := models.ParseGrade(req.Grade)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid letter grade")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}

	return s.record(ctx, req.StudentID, req.CourseCode, semester, grade, 0.0)
}

func (s *GradeService) record(ctx context.Context, studentID, courseCode string, semester models.Semester, grade models.Grade, percentage float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, err := s.enrollments.FindActiveByTriple(ctx, studentID, courseCode, semester)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up enrollment")
	}
	if err := s.enrollments.RecordGrade(ctx, enrollment.ID, grade, percentage); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}
	if err := s.recalculate(ctx, studentID); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.ObserveGradeRecorded(string(grade))
	}
	s.logger.Info("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
		zap.String("semester", string(semester)),
		zap.String("grade", string(grade)))
	return true, nil
}

// CalculateGPA computes the credit-weighted grade-point average over the
// student's active, GPA-counting graded enrollments. The returned credit
// total is the GPA denominator.
func (s *GradeService) CalculateGPA(ctx context.Context, studentID string) (float64, int, error) {
	enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{StudentID: studentID, ActiveOnly: true})
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	var gradePoints float64
	credits := 0
	for _, e := range enrollments {
		if !e.IsGraded() || !e.Grade.CountsTowardGPA() {
			continue
		}
		course, err := s.courses.FindByCode(ctx, e.CourseCode)
		if err != nil {
			continue
		}
		gradePoints += e.GradePoints() * float64(course.Credits)
		credits += course.Credits
	}

	if credits == 0 {
		return 0.0, 0, nil
	}
	return gradePoints / float64(credits), credits, nil
}

func (s *GradeService) recalculate(ctx context.Context, studentID string) error {
	gpa, credits, err := s.CalculateGPA(ctx, studentID)
	if err != nil {
		return err
	}
	if err := s.students.SetDerived(ctx, studentID, gpa, credits); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student gpa")
	}
	return nil
}
