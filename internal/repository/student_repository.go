package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campus-records/ccrm-api/internal/models"
)

// StudentRepository is the in-memory student directory. All returned records
// are copies; mutation happens through the dedicated methods so the store
// stays the single writer of its own state.
type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]*models.Student
	order    []string
}

// NewStudentRepository constructs an empty StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[string]*models.Student)}
}

// Create registers a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if _, ok := r.students[student.ID]; ok {
		return fmt.Errorf("student %s: %w", student.ID, ErrAlreadyExists)
	}
	for _, existing := range r.students {
		if existing.RegNo == student.RegNo {
			return fmt.Errorf("student reg no %s: %w", student.RegNo, ErrAlreadyExists)
		}
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	if student.EnrolledCourses == nil {
		student.EnrolledCourses = []string{}
	}
	stored := cloneStudent(student)
	r.students[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

// FindByID returns a copy of the student with the given id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	student, ok := r.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return cloneStudent(student), nil
}

// List returns students matching the filter in registration order.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Student, 0, len(r.order))
	for _, id := range r.order {
		student := r.students[id]
		if filter.Active != nil && student.Active != *filter.Active {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(student.FullName), needle) &&
				!strings.Contains(strings.ToLower(student.RegNo), needle) {
				continue
			}
		}
		matched = append(matched, *cloneStudent(student))
	}

	total := len(matched)
	return paginate(matched, filter.Page, filter.PageSize), total, nil
}

// Update replaces the mutable profile fields of a student. Derived fields and
// the enrolled-course set are not touched here.
func (r *StudentRepository) Update(ctx context.Context, id string, fullName, email string, semester models.Semester) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	if fullName != "" {
		student.FullName = fullName
	}
	if email != "" {
		student.Email = email
	}
	if semester != "" {
		student.CurrentSemester = semester
	}
	return cloneStudent(student), nil
}

// SetActive flips the active flag.
func (r *StudentRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	student.Active = active
	return nil
}

// SetDerived writes the engine-owned GPA and credit totals.
func (r *StudentRepository) SetDerived(ctx context.Context, id string, gpa float64, totalCredits int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	student.GPA = gpa
	student.TotalCredits = totalCredits
	return nil
}

// AddEnrolledCourse appends a course code to the student's enrolled set.
func (r *StudentRepository) AddEnrolledCourse(ctx context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	student.EnrollInCourse(code)
	return nil
}

// RemoveEnrolledCourse removes a course code from the student's enrolled set.
func (r *StudentRepository) RemoveEnrolledCourse(ctx context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	student.UnenrollFromCourse(code)
	return nil
}

// ReplaceAll swaps the whole directory, used by CSV import.
func (r *StudentRepository) ReplaceAll(ctx context.Context, students []models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students = make(map[string]*models.Student, len(students))
	r.order = r.order[:0]
	for i := range students {
		stored := cloneStudent(&students[i])
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		if stored.EnrolledCourses == nil {
			stored.EnrolledCourses = []string{}
		}
		r.students[stored.ID] = stored
		r.order = append(r.order, stored.ID)
	}
	return nil
}

func cloneStudent(s *models.Student) *models.Student {
	clone := *s
	clone.EnrolledCourses = append([]string(nil), s.EnrolledCourses...)
	return &clone
}

func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
