package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campus-records/ccrm-api/internal/models"
)

// InstructorRepository is the in-memory instructor directory.
type InstructorRepository struct {
	mu          sync.RWMutex
	instructors map[string]*models.Instructor
	order       []string
}

// NewInstructorRepository constructs an empty InstructorRepository.
func NewInstructorRepository() *InstructorRepository {
	return &InstructorRepository{instructors: make(map[string]*models.Instructor)}
}

// Create registers a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	if _, ok := r.instructors[instructor.ID]; ok {
		return fmt.Errorf("instructor %s: %w", instructor.ID, ErrAlreadyExists)
	}
	if instructor.CreatedAt.IsZero() {
		instructor.CreatedAt = time.Now().UTC()
	}
	if instructor.AssignedCourses == nil {
		instructor.AssignedCourses = []string{}
	}
	stored := cloneInstructor(instructor)
	r.instructors[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

// FindByID returns a copy of the instructor with the given id.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instructor, ok := r.instructors[id]
	if !ok {
		return nil, fmt.Errorf("instructor %s: %w", id, ErrNotFound)
	}
	return cloneInstructor(instructor), nil
}

// List returns all instructors in registration order.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Instructor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *cloneInstructor(r.instructors[id]))
	}
	return out, nil
}

// AssignCourse records a course taught by the instructor.
func (r *InstructorRepository) AssignCourse(ctx context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instructor, ok := r.instructors[id]
	if !ok {
		return fmt.Errorf("instructor %s: %w", id, ErrNotFound)
	}
	instructor.AssignCourse(code)
	return nil
}

// ReplaceAll swaps the whole directory, used by CSV import.
func (r *InstructorRepository) ReplaceAll(ctx context.Context, instructors []models.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instructors = make(map[string]*models.Instructor, len(instructors))
	r.order = r.order[:0]
	for i := range instructors {
		stored := cloneInstructor(&instructors[i])
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		r.instructors[stored.ID] = stored
		r.order = append(r.order, stored.ID)
	}
	return nil
}

func cloneInstructor(i *models.Instructor) *models.Instructor {
	clone := *i
	clone.AssignedCourses = append([]string(nil), i.AssignedCourses...)
	return &clone
}
