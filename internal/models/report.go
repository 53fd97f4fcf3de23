package models

// GPADistribution partitions active students into non-overlapping GPA bands.
type GPADistribution struct {
	Excellent        int `json:"excellent"`         // GPA >= 3.7
	Good             int `json:"good"`              // 3.0 <= GPA < 3.7
	Satisfactory     int `json:"satisfactory"`      // 2.0 <= GPA < 3.0
	NeedsImprovement int `json:"needs_improvement"` // GPA < 2.0
}

// SemesterStat is the active-enrollment count for one semester.
type SemesterStat struct {
	Semester    Semester `json:"semester"`
	Display     string   `json:"display"`
	Enrollments int      `json:"enrollments"`
}

// CoursePopularity ranks a course by active enrollments in its own semester.
type CoursePopularity struct {
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Semester    Semester `json:"semester"`
	Enrollments int      `json:"enrollments"`
}

// RegistrySummary is a dashboard-style snapshot of the registry.
type RegistrySummary struct {
	ActiveStudents      int     `json:"active_students"`
	ActiveCourses       int     `json:"active_courses"`
	ActiveEnrollments   int     `json:"active_enrollments"`
	GradedEnrollments   int     `json:"graded_enrollments"`
	UngradedEnrollments int     `json:"ungraded_enrollments"`
	AverageGPA          float64 `json:"average_gpa"`
}
