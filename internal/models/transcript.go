package models

import "time"

// TranscriptEntry is one course line on a transcript. It is a plain record
// owned by the transcript holding it.
type TranscriptEntry struct {
	CourseCode  string   `json:"course_code"`
	CourseTitle string   `json:"course_title"`
	Credits     int      `json:"credits"`
	Grade       *Grade   `json:"grade,omitempty"`
	Semester    Semester `json:"semester"`
	GradePoints float64  `json:"grade_points"`
}

// NewTranscriptEntry builds an entry, deriving the weighted grade points.
func NewTranscriptEntry(courseCode, courseTitle string, credits int, grade *Grade, semester Semester) TranscriptEntry {
	entry := TranscriptEntry{
		CourseCode:  courseCode,
		CourseTitle: courseTitle,
		Credits:     credits,
		Grade:       grade,
		Semester:    semester,
	}
	if grade != nil {
		entry.GradePoints = grade.Points() * float64(credits)
	}
	return entry
}

// Transcript is a derived, ephemeral view over a student's enrollments.
// Totals are maintained incrementally as entries are appended.
type Transcript struct {
	StudentID    string            `json:"student_id"`
	StudentName  string            `json:"student_name"`
	Entries      []TranscriptEntry `json:"entries"`
	OverallGPA   float64           `json:"overall_gpa"`
	TotalCredits int               `json:"total_credits"`
	GeneratedAt  time.Time         `json:"generated_at"`

	gradePointSum float64
}

// NewTranscript starts an empty transcript for a student.
func NewTranscript(studentID, studentName string) *Transcript {
	return &Transcript{
		StudentID:   studentID,
		StudentName: studentName,
		Entries:     []TranscriptEntry{},
		GeneratedAt: time.Now().UTC(),
	}
}

// AddEntry appends an entry and folds it into the running GPA and credit
// totals. Only GPA-counting graded entries contribute.
func (t *Transcript) AddEntry(entry TranscriptEntry) {
	t.Entries = append(t.Entries, entry)
	if entry.Grade == nil || !entry.Grade.CountsTowardGPA() {
		return
	}
	t.gradePointSum += entry.GradePoints
	t.TotalCredits += entry.Credits
	if t.TotalCredits > 0 {
		t.OverallGPA = t.gradePointSum / float64(t.TotalCredits)
	}
}

// EntriesBySemester filters entries to one semester.
func (t *Transcript) EntriesBySemester(semester Semester) []TranscriptEntry {
	var out []TranscriptEntry
	for _, entry := range t.Entries {
		if entry.Semester == semester {
			out = append(out, entry)
		}
	}
	return out
}
