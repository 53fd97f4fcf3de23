package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-records/ccrm-api/internal/models"
)

func TestEnrollmentRepositoryInsertionOrder(t *testing.T) {
	repo := NewEnrollmentRepository()
	ctx := context.Background()

	for _, code := range []string{"CSE101", "MAT201", "PHY110"} {
		require.NoError(t, repo.Create(ctx, &models.Enrollment{
			StudentID:  "s1",
			CourseCode: code,
			Semester:   models.SemesterFall2024,
			Active:     true,
		}))
	}

	list, err := repo.List(ctx, models.EnrollmentFilter{StudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "CSE101", list[0].CourseCode)
	assert.Equal(t, "MAT201", list[1].CourseCode)
	assert.Equal(t, "PHY110", list[2].CourseCode)
}

func TestEnrollmentRepositoryFindActiveByTriple(t *testing.T) {
	repo := NewEnrollmentRepository()
	ctx := context.Background()

	e := &models.Enrollment{StudentID: "s1", CourseCode: "CSE101", Semester: models.SemesterFall2024, Active: true}
	require.NoError(t, repo.Create(ctx, e))

	found, err := repo.FindActiveByTriple(ctx, "s1", "CSE101", models.SemesterFall2024)
	require.NoError(t, err)
	assert.Equal(t, e.ID, found.ID)

	_, err = repo.FindActiveByTriple(ctx, "s1", "CSE101", models.SemesterSpring2025)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deactivated records no longer match the triple lookup.
	require.NoError(t, repo.SetActive(ctx, e.ID, false))
	_, err = repo.FindActiveByTriple(ctx, "s1", "CSE101", models.SemesterFall2024)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEnrollmentRepositoryRecordGrade(t *testing.T) {
	repo := NewEnrollmentRepository()
	ctx := context.Background()

	e := &models.Enrollment{StudentID: "s1", CourseCode: "CSE101", Semester: models.SemesterFall2024, Active: true}
	require.NoError(t, repo.Create(ctx, e))
	require.NoError(t, repo.RecordGrade(ctx, e.ID, models.GradeAMinus, 91.5))

	found, err := repo.FindActiveByTriple(ctx, "s1", "CSE101", models.SemesterFall2024)
	require.NoError(t, err)
	require.NotNil(t, found.Grade)
	assert.Equal(t, models.GradeAMinus, *found.Grade)
	assert.Equal(t, 91.5, found.PercentageScore)

	err = repo.RecordGrade(ctx, "missing", models.GradeA, 95)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEnrollmentRepositoryGradedFilter(t *testing.T) {
	repo := NewEnrollmentRepository()
	ctx := context.Background()

	graded := &models.Enrollment{StudentID: "s1", CourseCode: "CSE101", Semester: models.SemesterFall2024, Active: true}
	require.NoError(t, repo.Create(ctx, graded))
	require.NoError(t, repo.RecordGrade(ctx, graded.ID, models.GradeB, 84))
	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: "s1", CourseCode: "MAT201", Semester: models.SemesterFall2024, Active: true}))

	isGraded := true
	list, err := repo.List(ctx, models.EnrollmentFilter{Graded: &isGraded})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CSE101", list[0].CourseCode)

	isGraded = false
	list, err = repo.List(ctx, models.EnrollmentFilter{Graded: &isGraded})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MAT201", list[0].CourseCode)
}
