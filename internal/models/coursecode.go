package models

import (
	"fmt"
	"strings"
	"unicode"
)

// CourseCode is an immutable department + number pair, e.g. CSE101.
type CourseCode struct {
	department string
	number     string
}

// NewCourseCode constructs a validated course code.
func NewCourseCode(department, number string) (CourseCode, error) {
	department = strings.ToUpper(strings.TrimSpace(department))
	number = strings.TrimSpace(number)
	if department == "" {
		return CourseCode{}, fmt.Errorf("course code department cannot be empty")
	}
	if number == "" {
		return CourseCode{}, fmt.Errorf("course code number cannot be empty")
	}
	return CourseCode{department: department, number: number}, nil
}

// ParseCourseCode splits a compact course code like "CSE101" into its
// department and number components.
func ParseCourseCode(raw string) (CourseCode, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return CourseCode{}, fmt.Errorf("course code cannot be empty")
	}
	i := 0
	for i < len(trimmed) && unicode.IsLetter(rune(trimmed[i])) {
		i++
	}
	if i == 0 || i >= len(trimmed) {
		return CourseCode{}, fmt.Errorf("invalid course code format %q", raw)
	}
	for _, r := range trimmed[i:] {
		if !unicode.IsDigit(r) {
			return CourseCode{}, fmt.Errorf("invalid course code format %q", raw)
		}
	}
	return CourseCode{department: trimmed[:i], number: trimmed[i:]}, nil
}

// Department returns the department prefix.
func (c CourseCode) Department() string {
	return c.department
}

// Number returns the numeric suffix.
func (c CourseCode) Number() string {
	return c.number
}

// String renders the compact form used as the course key everywhere else.
func (c CourseCode) String() string {
	return c.department + c.number
}
