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

type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindActiveByTriple(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	AddEnrolledCourse(ctx context.Context, id, code string) error
	RemoveEnrolledCourse(ctx context.Context, id, code string) error
}

type courseDirectory interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

// EnrollRequest describes an enrollment creation request.
type EnrollRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
}

// UnenrollRequest identifies an active enrollment by its triple.
type UnenrollRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
}

// EnrollmentService enforces the enrollment business rules: active-triple
// uniqueness and the per-semester credit cap. All checks precede mutation, so
// a failed call leaves no partial state behind.
type EnrollmentService struct {
	repo       enrollmentStore
	students   studentDirectory
	courses    courseDirectory
	maxCredits int
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService

	// Serialises the check-then-create sequence so concurrent requests
	// cannot slip past the uniqueness or credit-cap checks.
	mu sync.Mutex
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentStore, students studentDirectory, courses courseDirectory, maxCredits int, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCredits <= 0 {
		maxCredits = 18
	}
	return &EnrollmentService{
		repo:       repo,
		students:   students,
		courses:    courses,
		maxCredits: maxCredits,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
	}
}

// MaxCredits returns the per-semester credit cap in force.
func (s *EnrollmentService) MaxCredits() int {
	return s.maxCredits
}

// Enroll registers a student into a course for a semester.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil || !student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found or inactive")
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode)
	if err != nil || !course.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found or inactive")
	}

	if _, err := s.repo.FindActiveByTriple(ctx, req.StudentID, req.CourseCode, semester); err == nil {
		s.observeEnrollment("duplicate")
		return nil, appErrors.ErrDuplicateEnrollment
	}

	current, err := s.currentSemesterCredits(ctx, req.StudentID, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute semester credits")
	}
	if current+course.Credits > s.maxCredits {
		s.observeEnrollment("credit_limit")
		return nil, appErrors.NewCreditLimitExceeded(req.StudentID, current, s.maxCredits, course.Credits)
	}

	enrollment := &models.Enrollment{
		StudentID:  req.StudentID,
		CourseCode: req.CourseCode,
		Semester:   semester,
		Active:     true,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	if err := s.students.AddEnrolledCourse(ctx, req.StudentID, req.CourseCode); err != nil {
		s.logger.Warn("failed to update enrolled course set",
			zap.String("student_id", req.StudentID), zap.String("course_code", req.CourseCode), zap.Error(err))
	}

	s.observeEnrollment("created")
	s.logger.Info("student enrolled",
		zap.String("student_id", req.StudentID),
		zap.String("course_code", req.CourseCode),
		zap.String("semester", string(semester)))
	return enrollment, nil
}

// Unenroll soft-deactivates the active enrollment matching the triple. A
// missing match is a boolean outcome, not a failure.
func (s *EnrollmentService) Unenroll(ctx context.Context, req UnenrollRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unenroll payload")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, err := s.repo.FindActiveByTriple(ctx, req.StudentID, req.CourseCode, semester)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up enrollment")
	}
	if err := s.repo.SetActive(ctx, enrollment.ID, false); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate enrollment")
	}
	if err := s.students.RemoveEnrolledCourse(ctx, req.StudentID, req.CourseCode); err != nil {
		s.logger.Warn("failed to update enrolled course set",
			zap.String("student_id", req.StudentID), zap.String("course_code", req.CourseCode), zap.Error(err))
	}

	s.observeEnrollment("withdrawn")
	s.logger.Info("student unenrolled",
		zap.String("student_id", req.StudentID),
		zap.String("course_code", req.CourseCode),
		zap.String("semester", string(semester)))
	return true, nil
}

// IsEnrolled reports whether an active enrollment exists for the triple.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseCode string, semester models.Semester) (bool, error) {
	enrollment, err := s.FindEnrollment(ctx, studentID, courseCode, semester)
	if err != nil {
		return false, err
	}
	return enrollment != nil, nil
}

// FindEnrollment returns the active enrollment for the triple, or nil.
func (s *EnrollmentService) FindEnrollment(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindActiveByTriple(ctx, studentID, courseCode, semester)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up enrollment")
	}
	return enrollment, nil
}

// List returns enrollments matching the filter.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return list, nil
}

// StudentEnrollments returns the student's active enrollments in insertion
// order.
func (s *EnrollmentService) StudentEnrollments(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return s.List(ctx, models.EnrollmentFilter{StudentID: studentID, ActiveOnly: true})
}

// CourseEnrollments returns the active enrollments for a course in a semester.
func (s *EnrollmentService) CourseEnrollments(ctx context.Context, courseCode string, semester models.Semester) ([]models.Enrollment, error) {
	return s.List(ctx, models.EnrollmentFilter{CourseCode: courseCode, Semester: semester, ActiveOnly: true})
}

// SemesterEnrollments returns all active enrollments in a semester.
func (s *EnrollmentService) SemesterEnrollments(ctx context.Context, semester models.Semester) ([]models.Enrollment, error) {
	return s.List(ctx, models.EnrollmentFilter{Semester: semester, ActiveOnly: true})
}

// UngradedEnrollments returns active enrollments still waiting on a grade.
func (s *EnrollmentService) UngradedEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	graded := false
	return s.List(ctx, models.EnrollmentFilter{Graded: &graded, ActiveOnly: true})
}

// CurrentSemesterCredits sums the credits of the student's active enrollments
// in the given semester. Courses that no longer resolve contribute zero.
func (s *EnrollmentService) CurrentSemesterCredits(ctx context.Context, studentID string, semester models.Semester) (int, error) {
	return s.currentSemesterCredits(ctx, studentID, semester)
}

func (s *EnrollmentService) currentSemesterCredits(ctx context.Context, studentID string, semester models.Semester) (int, error) {
	enrollments, err := s.repo.List(ctx, models.EnrollmentFilter{StudentID: studentID, Semester: semester, ActiveOnly: true})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range enrollments {
		course, err := s.courses.FindByCode(ctx, e.CourseCode)
		if err != nil {
			continue
		}
		total += course.Credits
	}
	return total, nil
}

func (s *EnrollmentService) observeEnrollment(result string) {
	if s.metrics != nil {
		s.metrics.ObserveEnrollment(result)
	}
}
