package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
)

func newTranscriptServiceForTest(f *registrarFixture) *TranscriptService {
	return NewTranscriptService(f.students, f.courses, f.enrollments, zap.NewNop())
}

func TestTranscriptServiceGenerate(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	f.seedCourse(t, "MAT201", 3)
	f.seedCourse(t, "PHY110", 4)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s1", "MAT201", "FALL_2024")
	enroll(t, f, "s1", "PHY110", "SPRING_2025")

	grades := newGradeServiceForTest(f)
	ctx := context.Background()
	_, err := grades.RecordLetter(ctx, RecordLetterRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Grade: "A"})
	require.NoError(t, err)
	_, err = grades.RecordLetter(ctx, RecordLetterRequest{StudentID: "s1", CourseCode: "MAT201", Semester: "FALL_2024", Grade: "B"})
	require.NoError(t, err)

	svc := newTranscriptServiceForTest(f)
	transcript, err := svc.GenerateTranscript(ctx, "s1")
	require.NoError(t, err)

	// Entries preserve enrollment chronology, ungraded lines included.
	require.Len(t, transcript.Entries, 3)
	assert.Equal(t, "CSE101", transcript.Entries[0].CourseCode)
	assert.Equal(t, "MAT201", transcript.Entries[1].CourseCode)
	assert.Equal(t, "PHY110", transcript.Entries[2].CourseCode)
	assert.Nil(t, transcript.Entries[2].Grade)

	assert.InDelta(t, 3.5, transcript.OverallGPA, 1e-9)
	assert.Equal(t, 6, transcript.TotalCredits)
}

func TestTranscriptServiceSemesterFilter(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	f.seedCourse(t, "PHY110", 4)
	enroll(t, f, "s1", "CSE101", "FALL_2024")
	enroll(t, f, "s1", "PHY110", "SPRING_2025")

	svc := newTranscriptServiceForTest(f)
	transcript, err := svc.GenerateSemesterTranscript(context.Background(), "s1", models.SemesterSpring2025)
	require.NoError(t, err)
	require.Len(t, transcript.Entries, 1)
	assert.Equal(t, "PHY110", transcript.Entries[0].CourseCode)
}

func TestTranscriptServiceEmptyStudent(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")

	svc := newTranscriptServiceForTest(f)
	transcript, err := svc.GenerateTranscript(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, transcript.Entries)
	assert.Equal(t, 0.0, transcript.OverallGPA)
	assert.Equal(t, 0, transcript.TotalCredits)
}

func TestTranscriptServiceUnknownStudent(t *testing.T) {
	f := newRegistrarFixture(t)
	svc := newTranscriptServiceForTest(f)

	_, err := svc.GenerateTranscript(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestTranscriptServiceExportCSV(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")

	grades := newGradeServiceForTest(f)
	_, err := grades.RecordLetter(context.Background(), RecordLetterRequest{StudentID: "s1", CourseCode: "CSE101", Semester: "FALL_2024", Grade: "A"})
	require.NoError(t, err)

	svc := newTranscriptServiceForTest(f)
	payload, filename, err := svc.Export(context.Background(), "s1", "", TranscriptFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "transcript_s1.csv", filename)

	body := string(payload)
	assert.Contains(t, body, "CSE101")
	assert.Contains(t, body, "Fall 2024")
	assert.Contains(t, body, "Overall GPA: 4.00")
	assert.Contains(t, body, "Total Credits: 3")
}

func TestTranscriptServiceExportPDF(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")
	f.seedCourse(t, "CSE101", 3)
	enroll(t, f, "s1", "CSE101", "FALL_2024")

	svc := newTranscriptServiceForTest(f)
	payload, filename, err := svc.Export(context.Background(), "s1", models.SemesterFall2024, TranscriptFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "transcript_s1_fall_2024.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestTranscriptServiceExportUnknownFormat(t *testing.T) {
	f := newRegistrarFixture(t)
	f.seedStudent(t, "s1")

	svc := newTranscriptServiceForTest(f)
	_, _, err := svc.Export(context.Background(), "s1", "", TranscriptFormat("xml"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}
