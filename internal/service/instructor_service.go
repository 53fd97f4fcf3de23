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

type instructorStore interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
}

// CreateInstructorRequest describes instructor registration.
type CreateInstructorRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
}

// InstructorService is the thin CRUD layer over the instructor directory.
type InstructorService struct {
	repo      instructorStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs InstructorService.
func NewInstructorService(repo instructorStore, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new active instructor.
func (s *InstructorService) Create(ctx context.Context, req CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := &models.Instructor{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Active:     true,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "instructor already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Get returns an instructor by id.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	return instructor, nil
}

// List returns all instructors.
func (s *InstructorService) List(ctx context.Context) ([]models.Instructor, error) {
	instructors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}
