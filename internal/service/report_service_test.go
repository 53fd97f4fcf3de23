package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
)

func newReportServiceForTest(f *registrarFixture) *ReportService {
	return NewReportService(f.students, f.courses, f.enrollments, nil, 0, zap.NewNop())
}

func seedStudentWithGPA(t *testing.T, f *registrarFixture, id string, gpa float64) {
	t.Helper()
	f.seedStudent(t, id)
	require.NoError(t, f.students.SetDerived(context.Background(), id, gpa, 12))
}

func TestReportServiceGPADistribution(t *testing.T) {
	f := newRegistrarFixture(t)
	seedStudentWithGPA(t, f, "s1", 4.0)
	seedStudentWithGPA(t, f, "s2", 3.7) // band boundaries are inclusive
	seedStudentWithGPA(t, f, "s3", 3.0)
	seedStudentWithGPA(t, f, "s4", 2.0)
	seedStudentWithGPA(t, f, "s5", 1.99)
	seedStudentWithGPA(t, f, "s6", 0.0)

	svc := newReportServiceForTest(f)
	dist, err := svc.GPADistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dist.Excellent)
	assert.Equal(t, 1, dist.Good)
	assert.Equal(t, 1, dist.Satisfactory)
	assert.Equal(t, 2, dist.NeedsImprovement)
}

func TestReportServiceGPADistributionSkipsInactive(t *testing.T) {
	f := newRegistrarFixture(t)
	seedStudentWithGPA(t, f, "s1", 4.0)
	seedStudentWithGPA(t, f, "s2", 4.0)
	require.NoError(t, f.students.SetActive(context.Background(), "s2", false))

	svc := newReportServiceForTest(f)
	dist, err := svc.GPADistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dist.Excellent)
}

func TestReportServiceSemesterStatistics(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedStudent(t, "s2")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s2", "CSE101", "FALL_2024")
	enroll(t, f, "s1", "CSE101", "SPRING_2025")

	svc := newReportServiceForTest(f)
	stats, err := svc.SemesterStatistics(context.Background())
	require.NoError(t, err)

	// One row per defined semester, chronological, zero rows included.
	require.Len(t, stats, len(models.Semesters()))
	assert.Equal(t, models.SemesterFall2024, stats[0].Semester)
	assert.Equal(t, "Fall 2024", stats[0].Display)
	assert.Equal(t, 2, stats[0].Enrollments)
	assert.Equal(t, 1, stats[1].Enrollments)
	for _, stat := range stats[2:] {
		assert.Equal(t, 0, stat.Enrollments)
	}
}

func TestReportServiceCoursePopularity(t *testing.T) {
	f := newRegistrarFixture(t)
	for _, id := range []string{"s1", "s2", "s3"} {
		f.seedStudent(t, id)
	}
	f.seedCourse(t, "CSE101", 3)
	f.seedCourse(t, "MAT201", 3)
	f.seedCourse(t, "ART100", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s2", "CSE101", "FALL_2024")
	enroll(t, f, "s1", "MAT201", "FALL_2024")
	enroll(t, f, "s3", "ART100", "FALL_2024")

	svc := newReportServiceForTest(f)
	ranking, err := svc.CoursePopularity(context.Background())
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, "CSE101", ranking[0].CourseCode)
	assert.Equal(t, 2, ranking[0].Enrollments)
	// Equal counts order by ascending course code.
	assert.Equal(t, "ART100", ranking[1].CourseCode)
	assert.Equal(t, "MAT201", ranking[2].CourseCode)
}

func TestReportServiceTopStudents(t *testing.T) {
	f := newRegistrarFixture(t)
	seedStudentWithGPA(t, f, "s1", 2.5)
	seedStudentWithGPA(t, f, "s2", 3.9)
	seedStudentWithGPA(t, f, "s3", 3.2)

	svc := newReportServiceForTest(f)
	top, err := svc.TopStudents(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "s2", top[0].ID)
	assert.Equal(t, "s3", top[1].ID)
}

func TestReportServiceSummary(t *testing.T) {
	f := newRegistrarFixture(t)
	seedStudentWithGPA(t, f, "s1", 4.0)
	seedStudentWithGPA(t, f, "s2", 2.0)
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s2", "CSE101", "FALL_2024")

	grades := newGradeServiceForTest(f)
	_, err := grades.RecordLetter(context.Background(), RecordLetterRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Grade: "A"})
	require.NoError(t, err)

	svc := newReportServiceForTest(f)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveStudents)
	assert.Equal(t, 1, summary.ActiveCourses)
	assert.Equal(t, 2, summary.ActiveEnrollments)
	assert.Equal(t, 1, summary.GradedEnrollments)
	assert.Equal(t, 1, summary.UngradedEnrollments)
}
