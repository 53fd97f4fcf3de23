package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campus-records/ccrm-api/internal/models"
)

// CourseRepository is the in-memory course catalog, keyed by course code.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*models.Course
	order   []string
}

// NewCourseRepository constructs an empty CourseRepository.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]*models.Course)}
}

// Create registers a new course under its code.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if course.Code == "" {
		return fmt.Errorf("course code is required")
	}
	if _, ok := r.courses[course.Code]; ok {
		return fmt.Errorf("course %s: %w", course.Code, ErrAlreadyExists)
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	stored := *course
	r.courses[stored.Code] = &stored
	r.order = append(r.order, stored.Code)
	return nil
}

// FindByCode returns a copy of the course with the given code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[code]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	clone := *course
	return &clone, nil
}

// List returns courses matching the filter in catalog order.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Course, 0, len(r.order))
	for _, code := range r.order {
		course := r.courses[code]
		if filter.Active != nil && course.Active != *filter.Active {
			continue
		}
		if filter.Department != "" && course.Department != filter.Department {
			continue
		}
		if filter.Semester != "" && course.Semester != filter.Semester {
			continue
		}
		if filter.InstructorID != "" && course.InstructorID != filter.InstructorID {
			continue
		}
		matched = append(matched, *course)
	}

	total := len(matched)
	return paginate(matched, filter.Page, filter.PageSize), total, nil
}

// Update replaces the mutable catalog fields of a course.
func (r *CourseRepository) Update(ctx context.Context, code string, title, description, instructorID string, credits int) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.courses[code]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	if title != "" {
		course.Title = title
	}
	if description != "" {
		course.Description = description
	}
	if instructorID != "" {
		course.InstructorID = instructorID
	}
	if credits > 0 {
		course.Credits = credits
	}
	clone := *course
	return &clone, nil
}

// SetActive flips the active flag.
func (r *CourseRepository) SetActive(ctx context.Context, code string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.courses[code]
	if !ok {
		return fmt.Errorf("course %s: %w", code, ErrNotFound)
	}
	course.Active = active
	return nil
}

// ReplaceAll swaps the whole catalog, used by CSV import.
func (r *CourseRepository) ReplaceAll(ctx context.Context, courses []models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses = make(map[string]*models.Course, len(courses))
	r.order = r.order[:0]
	for i := range courses {
		stored := courses[i]
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		r.courses[stored.Code] = &stored
		r.order = append(r.order, stored.Code)
	}
	return nil
}
