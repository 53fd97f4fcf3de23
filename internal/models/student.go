package models

import (
	"fmt"
	"time"
)

// Student represents a learner registered in the institution. GPA and
// TotalCredits are derived fields: the grading engine alone writes them.
type Student struct {
	ID              string    `json:"id"`
	RegNo           string    `json:"reg_no"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	EnrolledCourses []string  `json:"enrolled_courses"`
	CurrentSemester Semester  `json:"current_semester"`
	GPA             float64   `json:"gpa"`
	TotalCredits    int       `json:"total_credits"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// PersonType identifies the variant.
func (s *Student) PersonType() string {
	return "Student"
}

// DisplayInfo renders a one-line description.
func (s *Student) DisplayInfo() string {
	return fmt.Sprintf("Student: %s (%s) - %s", s.FullName, s.RegNo, s.Email)
}

// EnrollInCourse adds the course code to the student's enrolled set.
func (s *Student) EnrollInCourse(code string) {
	if s.IsEnrolledIn(code) {
		return
	}
	s.EnrolledCourses = append(s.EnrolledCourses, code)
}

// UnenrollFromCourse removes the course code from the enrolled set.
func (s *Student) UnenrollFromCourse(code string) {
	for i, c := range s.EnrolledCourses {
		if c == code {
			s.EnrolledCourses = append(s.EnrolledCourses[:i], s.EnrolledCourses[i+1:]...)
			return
		}
	}
}

// IsEnrolledIn reports whether the course code is in the enrolled set.
func (s *Student) IsEnrolledIn(code string) bool {
	for _, c := range s.EnrolledCourses {
		if c == code {
			return true
		}
	}
	return false
}

// StudentFilter encapsulates search parameters for listing students.
type StudentFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
