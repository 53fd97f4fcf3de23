package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campus-records/ccrm-api/internal/models"
)

// EnrollmentRepository is the in-memory enrollment store. Records are kept in
// insertion order, which downstream transcript generation relies on, and are
// only ever soft-deactivated.
type EnrollmentRepository struct {
	mu      sync.RWMutex
	entries []*models.Enrollment
	byID    map[string]*models.Enrollment
}

// NewEnrollmentRepository constructs an empty EnrollmentRepository.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{byID: make(map[string]*models.Enrollment)}
}

// Create appends a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if _, ok := r.byID[enrollment.ID]; ok {
		return fmt.Errorf("enrollment %s: %w", enrollment.ID, ErrAlreadyExists)
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	stored := cloneEnrollment(enrollment)
	r.entries = append(r.entries, stored)
	r.byID[stored.ID] = stored
	return nil
}

// FindActiveByTriple returns the active enrollment matching the
// (student, course, semester) triple, if any.
func (r *EnrollmentRepository) FindActiveByTriple(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Active && e.StudentID == studentID && e.CourseCode == courseCode && e.Semester == semester {
			return cloneEnrollment(e), nil
		}
	}
	return nil, fmt.Errorf("enrollment %s/%s/%s: %w", studentID, courseCode, semester, ErrNotFound)
}

// List returns enrollments matching the filter in insertion order.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Enrollment, 0, len(r.entries))
	for _, e := range r.entries {
		if filter.ActiveOnly && !e.Active {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseCode != "" && e.CourseCode != filter.CourseCode {
			continue
		}
		if filter.Semester != "" && e.Semester != filter.Semester {
			continue
		}
		if filter.Graded != nil && e.IsGraded() != *filter.Graded {
			continue
		}
		out = append(out, *cloneEnrollment(e))
	}
	return out, nil
}

// CountActive returns the number of active enrollments matching the filter.
func (r *EnrollmentRepository) CountActive(ctx context.Context, filter models.EnrollmentFilter) (int, error) {
	filter.ActiveOnly = true
	list, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// SetActive flips the active flag on an enrollment.
func (r *EnrollmentRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
	}
	e.Active = active
	return nil
}

// RecordGrade stores the letter grade and percentage score on an enrollment.
func (r *EnrollmentRepository) RecordGrade(ctx context.Context, id string, grade models.Grade, percentage float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
	}
	g := grade
	e.Grade = &g
	e.PercentageScore = percentage
	return nil
}

// All returns every enrollment, active or not, in insertion order.
func (r *EnrollmentRepository) All(ctx context.Context) ([]models.Enrollment, error) {
	return r.List(ctx, models.EnrollmentFilter{})
}

// ReplaceAll swaps the whole store, used by CSV import.
func (r *EnrollmentRepository) ReplaceAll(ctx context.Context, enrollments []models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = r.entries[:0]
	r.byID = make(map[string]*models.Enrollment, len(enrollments))
	for i := range enrollments {
		stored := cloneEnrollment(&enrollments[i])
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		r.entries = append(r.entries, stored)
		r.byID[stored.ID] = stored
	}
	return nil
}

func cloneEnrollment(e *models.Enrollment) *models.Enrollment {
	clone := *e
	if e.Grade != nil {
		g := *e.Grade
		clone.Grade = &g
	}
	return &clone
}
