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

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Update(ctx context.Context, id string, fullName, email string, semester models.Semester) (*models.Student, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// CreateStudentRequest describes student registration.
type CreateStudentRequest struct {
	RegNo    string `json:"reg_no" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest carries the mutable profile fields.
type UpdateStudentRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Semester string `json:"current_semester"`
}

// StudentService is the thin CRUD layer over the student directory.
type StudentService struct {
	repo            studentStore
	defaultSemester models.Semester
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentStore, defaultSemester models.Semester, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, defaultSemester: defaultSemester, validator: validate, logger: logger}
}

// Create registers a new active student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		RegNo:           req.RegNo,
		FullName:        req.FullName,
		Email:           req.Email,
		CurrentSemester: s.defaultSemester,
		Active:          true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update replaces the mutable profile fields.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	var semester models.Semester
	if req.Semester != "" {
		parsed, err := models.ParseSemester(req.Semester)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
		}
		semester = parsed
	}
	student, err := s.repo.Update(ctx, id, req.FullName, req.Email, semester)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Deactivate soft-deletes a student record.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	return nil
}
