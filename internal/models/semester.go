package models

import (
	"fmt"
	"strings"
)

// Semester is an ordered academic term token (season + year).
type Semester string

// Defined semesters in chronological order. The order is load-bearing:
// reports iterate semesters in this sequence and Next walks it.
const (
	SemesterFall2024   Semester = "FALL_2024"
	SemesterSpring2025 Semester = "SPRING_2025"
	SemesterSummer2025 Semester = "SUMMER_2025"
	SemesterFall2025   Semester = "FALL_2025"
	SemesterSpring2026 Semester = "SPRING_2026"
	SemesterSummer2026 Semester = "SUMMER_2026"
)

var semesterOrder = []Semester{
	SemesterFall2024,
	SemesterSpring2025,
	SemesterSummer2025,
	SemesterFall2025,
	SemesterSpring2026,
	SemesterSummer2026,
}

// Semesters returns all defined semesters in chronological order.
func Semesters() []Semester {
	out := make([]Semester, len(semesterOrder))
	copy(out, semesterOrder)
	return out
}

// Valid reports whether s is a defined semester.
func (s Semester) Valid() bool {
	for _, sem := range semesterOrder {
		if sem == s {
			return true
		}
	}
	return false
}

// Season returns the season component, e.g. "Fall".
func (s Semester) Season() string {
	parts := strings.SplitN(string(s), "_", 2)
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	season := strings.ToLower(parts[0])
	return strings.ToUpper(season[:1]) + season[1:]
}

// Year returns the calendar year component.
func (s Semester) Year() int {
	parts := strings.SplitN(string(s), "_", 2)
	if len(parts) < 2 {
		return 0
	}
	var year int
	fmt.Sscanf(parts[1], "%d", &year) //nolint:errcheck
	return year
}

// Display renders the human form, e.g. "Fall 2024".
func (s Semester) Display() string {
	return fmt.Sprintf("%s %d", s.Season(), s.Year())
}

// Next returns the following semester. The final defined semester is its own
// successor.
func (s Semester) Next() Semester {
	for i, sem := range semesterOrder {
		if sem == s {
			if i == len(semesterOrder)-1 {
				return sem
			}
			return semesterOrder[i+1]
		}
	}
	return s
}

// ParseSemester resolves a semester from its token ("FALL_2024") or display
// ("Fall 2024") form.
func ParseSemester(raw string) (Semester, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
	s := Semester(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("unknown semester %q", raw)
	}
	return s, nil
}
