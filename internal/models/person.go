package models

import (
	"fmt"
	"time"
)

// Person is the capability set shared by the people variants in the registry.
// Student and Instructor implement it; there is no base record.
type Person interface {
	PersonType() string
	DisplayInfo() string
}

// Instructor represents a faculty member who may be assigned to courses.
type Instructor struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Department      string    `json:"department"`
	AssignedCourses []string  `json:"assigned_courses"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// PersonType identifies the variant.
func (i *Instructor) PersonType() string {
	return "Instructor"
}

// DisplayInfo renders a one-line description.
func (i *Instructor) DisplayInfo() string {
	return fmt.Sprintf("Instructor: %s (%s) - %s", i.FullName, i.Department, i.Email)
}

// AssignCourse records a course taught by the instructor.
func (i *Instructor) AssignCourse(code string) {
	for _, c := range i.AssignedCourses {
		if c == code {
			return
		}
	}
	i.AssignedCourses = append(i.AssignedCourses, code)
}
