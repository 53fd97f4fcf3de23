package models

import "time"

// Course is a catalog entry offered in a specific semester. Credits and
// semester are read-only to the enrollment engine.
type Course struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Credits      int       `json:"credits"`
	Department   string    `json:"department"`
	InstructorID string    `json:"instructor_id,omitempty"`
	Semester     Semester  `json:"semester"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CourseFilter encapsulates search parameters for listing courses.
type CourseFilter struct {
	Department   string
	Semester     Semester
	InstructorID string
	Active       *bool
	Page         int
	PageSize     int
}
