package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
)

func newGradeServiceForTest(f *registrarFixture) *GradeService {
	return NewGradeService(f.enrollments, f.students, f.courses, nil, zap.NewNop(), nil)
}

func enroll(t *testing.T, f *registrarFixture, studentID, courseCode string, semester string) {
	t.Helper()
	svc := newEnrollmentServiceForTest(f, 18)
	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: studentID, CourseCode: courseCode, Semester: semester})
	require.NoError(t, err)
}

func TestGradeServiceRecordScore(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	svc := newGradeServiceForTest(f)

	recorded, err := svc.RecordScore(context.Background(), RecordScoreRequest{
		StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: 92.5,
	})
	require.NoError(t, err)
	assert.True(t, recorded)

	e, err := f.enrollments.FindActiveByTriple(context.Background(), "s1", "CSE101", models.SemesterFall2024)
	require.NoError(t, err)
	require.NotNil(t, e.Grade)
	assert.Equal(t, models.GradeAMinus, *e.Grade)
	assert.Equal(t, 92.5, e.PercentageScore)

	// The student's derived GPA is recomputed on the spot.
	student, err := f.students.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.InDelta(t, 3.7, student.GPA, 1e-9)
	assert.Equal(t, 3, student.TotalCredits)
}

func TestGradeServiceRecordScoreOutOfRange(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	svc := newGradeServiceForTest(f)

	for _, score := range []float64{-0.1, 100.01, 150} {
		_, err := svc.RecordScore(context.Background(), RecordScoreRequest{
			StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: score,
		})
		require.Error(t, err, "score %v", score)
		assert.Equal(t, "INVALID_SCORE", appErrors.FromError(err).Code)
	}

	// Boundary values are accepted.
	for _, score := range []float64{0, 100} {
		recorded, err := svc.RecordScore(context.Background(), RecordScoreRequest{
			StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: score,
		})
		require.NoError(t, err)
		assert.True(t, recorded)
	}
}

func TestGradeServiceRecordLetter(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	svc := newGradeServiceForTest(f)

	recorded, err := svc.RecordScore(context.Background(), RecordScoreRequest{
		StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: 95,
	})
	require.NoError(t, err)
	require.True(t, recorded)

	recorded, err = svc.RecordLetter(context.Background(), RecordLetterRequest{
		StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Grade: "B+",
	})
	require.NoError(t, err)
	assert.True(t, recorded)

	// The letter becomes canonical; the stale score is cleared.
	e, err := f.enrollments.FindActiveByTriple(context.Background(), "s1", "CSE101", models.SemesterFall2024)
	require.NoError(t, err)
	require.NotNil(t, e.Grade)
	assert.Equal(t, models.GradeBPlus, *e.Grade)
	assert.Equal(t, 0.0, e.PercentageScore)

	student, err := f.students.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.InDelta(t, 3.3, student.GPA, 1e-9)
}

func TestGradeServiceRecordMissingEnrollment(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	svc := newGradeServiceForTest(f)

	recorded, err := svc.RecordScore(context.Background(), RecordScoreRequest{
		StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Percentage: 88,
	})
	require.NoError(t, err)
	assert.False(t, recorded)
}

func TestGradeServiceCalculateGPA(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	f.seedCourse(t, "MAT201", 3)
	f.seedCourse(t, "PHY110", 4)
	f.seedCourse(t, "HIS120", 2)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s1", "MAT201", "FALL_2024")
	enroll(t, f, "s1", "PHY110", "FALL_2024")
	enroll(t, f, "s1", "HIS120", "FALL_2024")
	svc := newGradeServiceForTest(f)

	ctx := context.Background()
	_, err := svc.RecordLetter(ctx, RecordLetterRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Grade: "A"})
	require.NoError(t, err)
	_, err = svc.RecordLetter(ctx, RecordLetterRequest{StudentID: "s1", CourseCode: "MAT201", Semester: "FALL_2024", Grade: "B"})
	require.NoError(t, err)
	// Withdrawal never counts toward the GPA; PHY110 stays ungraded.
	_, err = svc.RecordLetter(ctx, RecordLetterRequest{StudentID: "s1", CourseCode: "HIS120", Semester: "FALL_2024", Grade: "W"})
	require.NoError(t, err)

	gpa, credits, err := svc.CalculateGPA(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, gpa, 1e-9)
	assert.Equal(t, 6, credits)
}

func TestGradeServiceCalculateGPAEmpty(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	svc := newGradeServiceForTest(f)

	gpa, credits, err := svc.CalculateGPA(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, gpa)
	assert.Equal(t, 0, credits)
}
