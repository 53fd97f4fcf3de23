package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	"github.com/campus-records/ccrm-api/internal/repository"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/jobs"
	"github.com/campus-records/ccrm-api/pkg/storage"
)

func newFileServiceForTest(t *testing.T, f *registrarFixture) *FileService {
	t.Helper()
	instructors := repository.NewInstructorRepository()
	data, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewFileService(f.students, f.courses, instructors, f.enrollments, data, FileServiceConfig{}, zap.NewNop(), nil)
}

func TestFileServiceEnrollmentRoundTrip(t *testing.T) {
	f := newRegistrarFixture(t)
	ctx := context.Background()

	grade := models.GradeAMinus
	enrolledAt := time.Date(2024, 9, 2, 10, 30, 0, 0, time.UTC)
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{
		ID:         "e1",
		StudentID:  "s1",
		CourseCode: "CSE101",
		Semester:   models.SemesterFall2024,
		EnrolledAt: enrolledAt,
		Active:     true,
	}))
	require.NoError(t, f.enrollments.RecordGrade(ctx, "e1", grade, 91.25))
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{
		ID:         "e2",
		StudentID:  "s1",
		CourseCode: "MAT201",
		Semester:   models.SemesterFall2024,
		EnrolledAt: enrolledAt,
		Active:     false,
	}))

	svc := newFileServiceForTest(t, f)
	filename, err := svc.Export(ctx, EntityEnrollments)
	require.NoError(t, err)
	assert.Equal(t, "enrollments.csv", filename)

	count, err := svc.Import(ctx, EntityEnrollments, filename)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	restored, err := f.enrollments.All(ctx)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	first := restored[0]
	assert.Equal(t, "e1", first.ID)
	assert.Equal(t, "s1", first.StudentID)
	assert.Equal(t, "CSE101", first.CourseCode)
	assert.Equal(t, models.SemesterFall2024, first.Semester)
	assert.True(t, first.EnrolledAt.Equal(enrolledAt))
	require.NotNil(t, first.Grade)
	assert.Equal(t, models.GradeAMinus, *first.Grade)
	assert.Equal(t, 91.25, first.PercentageScore)
	assert.True(t, first.Active)

	second := restored[1]
	assert.Nil(t, second.Grade)
	assert.False(t, second.Active)
}

func TestFileServiceStudentRoundTrip(t *testing.T) {
	f := newRegistrarFixture(t)
	ctx := context.Background()
	f.seedStudent(t, "s1")
	require.NoError(t, f.students.AddEnrolledCourse(ctx, "s1", "CSE101"))
	require.NoError(t, f.students.AddEnrolledCourse(ctx, "s1", "MAT201"))

	svc := newFileServiceForTest(t, f)
	filename, err := svc.Export(ctx, EntityStudents)
	require.NoError(t, err)

	count, err := svc.Import(ctx, EntityStudents, filename)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	restored, err := f.students.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Student s1", restored.FullName)
	assert.Equal(t, []string{"CSE101", "MAT201"}, restored.EnrolledCourses)
	assert.True(t, restored.Active)
}

func TestFileServiceImportSkipsBadRecords(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newFileServiceForTest(t, f)
	ctx := context.Background()

	raw := "id,studentId,courseCode,semester,enrolledAt,percentageScore,grade,status\n" +
		"e1,s1,CSE101,FALL_2024,2024-09-02T10:30:00Z,91.25,A-,ACTIVE\n" +
		"garbage-line\n" +
		"e2,s1,MAT201,NOT_A_SEMESTER,2024-09-02T10:30:00Z,0.00,,ACTIVE\n"
	_, err := svc.data.Save("enrollments.csv", []byte(raw))
	require.NoError(t, err)

	count, err := svc.Import(ctx, EntityEnrollments, "enrollments.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileServiceImportMissingFile(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newFileServiceForTest(t, f)

	_, err := svc.Import(context.Background(), EntityStudents, "nope.csv")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestFileServiceUnknownEntity(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newFileServiceForTest(t, f)

	_, err := svc.Export(context.Background(), "widgets")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestFileServiceBackup(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newFileServiceForTest(t, f)
	ctx := context.Background()

	_, err := svc.data.Save("students.csv", []byte("id,regNo\n"))
	require.NoError(t, err)

	size, err := svc.BackupSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	require.NoError(t, svc.runBackup(ctx, jobs.Job{ID: "job-1", Type: "backup"}))

	size, err = svc.BackupSize(ctx)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestFileServiceBackupRequiresStart(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newFileServiceForTest(t, f)

	_, err := svc.Backup(context.Background())
	assert.Error(t, err)

	ctx := context.Background()
	svc.Start(ctx)
	defer svc.Stop()
	jobID, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)
}
