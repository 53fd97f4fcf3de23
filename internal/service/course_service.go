package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/repository"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
)

type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	Update(ctx context.Context, code string, title, description, instructorID string, credits int) (*models.Course, error)
	SetActive(ctx context.Context, code string, active bool) error
}

type instructorAssigner interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	AssignCourse(ctx context.Context, id, code string) error
}

// CreateCourseRequest describes a catalog entry.
type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Credits      int    `json:"credits" validate:"required,gt=0"`
	InstructorID string `json:"instructor_id"`
	Semester     string `json:"semester" validate:"required"`
}

// UpdateCourseRequest carries the mutable catalog fields.
type UpdateCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	InstructorID string `json:"instructor_id"`
	Credits      int    `json:"credits" validate:"omitempty,gt=0"`
}

// CourseService is the thin CRUD layer over the course catalog. The course
// code is parsed into its department + number form so the department is
// always derivable from the code itself.
type CourseService struct {
	repo        courseStore
	instructors instructorAssigner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseStore, instructors instructorAssigner, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// Create registers a new active course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code, err := models.ParseCourseCode(req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course code")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}
	if req.InstructorID != "" {
		if _, err := s.instructors.FindByID(ctx, req.InstructorID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
	}

	course := &models.Course{
		Code:         code.String(),
		Title:        req.Title,
		Description:  req.Description,
		Credits:      req.Credits,
		Department:   code.Department(),
		InstructorID: req.InstructorID,
		Semester:     semester,
		Active:       true,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already in catalog")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	if req.InstructorID != "" {
		if err := s.instructors.AssignCourse(ctx, req.InstructorID, course.Code); err != nil {
			s.logger.Warn("failed to record instructor assignment",
				zap.String("instructor_id", req.InstructorID), zap.String("course_code", course.Code), zap.Error(err))
		}
	}
	return course, nil
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

// List returns courses with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update replaces the mutable catalog fields.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.InstructorID != "" {
		if _, err := s.instructors.FindByID(ctx, req.InstructorID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
	}
	course, err := s.repo.Update(ctx, code, req.Title, req.Description, req.InstructorID, req.Credits)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	if req.InstructorID != "" {
		if err := s.instructors.AssignCourse(ctx, req.InstructorID, course.Code); err != nil {
			s.logger.Warn("failed to record instructor assignment",
				zap.String("instructor_id", req.InstructorID), zap.String("course_code", course.Code), zap.Error(err))
		}
	}
	return course, nil
}

// Deactivate soft-deletes a course record.
func (s *CourseService) Deactivate(ctx context.Context, code string) error {
	if err := s.repo.SetActive(ctx, code, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate course")
	}
	return nil
}
