package models

import "time"

// Enrollment links one student to one course in one semester. Records are
// soft-deactivated, never deleted: among active enrollments the
// (student, course, semester) triple is unique.
type Enrollment struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	CourseCode      string    `json:"course_code"`
	Semester        Semester  `json:"semester"`
	EnrolledAt      time.Time `json:"enrolled_at"`
	Grade           *Grade    `json:"grade,omitempty"`
	PercentageScore float64   `json:"percentage_score"`
	Active          bool      `json:"active"`
}

// IsGraded reports whether a letter grade has been recorded.
func (e *Enrollment) IsGraded() bool {
	return e.Grade != nil
}

// GradePoints returns the grade-point value of the recorded grade, 0.0 when
// ungraded.
func (e *Enrollment) GradePoints() float64 {
	if e.Grade == nil {
		return 0.0
	}
	return e.Grade.Points()
}

// StatusToken renders the persisted status field.
func (e *Enrollment) StatusToken() string {
	if e.Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID  string
	CourseCode string
	Semester   Semester
	Graded     *bool
	ActiveOnly bool
}
