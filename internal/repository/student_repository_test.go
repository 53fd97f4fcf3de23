package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-records/ccrm-api/internal/models"
)

func TestStudentRepositoryCreateAndFind(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	student := &models.Student{RegNo: "2024-001", FullName: "Ada Lovelace", Email: "ada@campus.edu", Active: true}
	require.NoError(t, repo.Create(ctx, student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found.FullName)

	// Returned records are copies; mutating them must not leak back.
	found.FullName = "changed"
	again, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", again.FullName)
}

func TestStudentRepositoryDuplicateRegNo(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Student{RegNo: "2024-001", FullName: "Ada", Active: true}))
	err := repo.Create(ctx, &models.Student{RegNo: "2024-001", FullName: "Grace", Active: true})
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestStudentRepositoryListFilterAndPagination(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	for _, s := range []*models.Student{
		{RegNo: "2024-001", FullName: "Ada Lovelace", Active: true},
		{RegNo: "2024-002", FullName: "Grace Hopper", Active: true},
		{RegNo: "2024-003", FullName: "Alan Turing", Active: false},
	} {
		require.NoError(t, repo.Create(ctx, s))
	}

	active := true
	list, total, err := repo.List(ctx, models.StudentFilter{Active: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, models.StudentFilter{Search: "hopper"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Grace Hopper", list[0].FullName)

	list, total, err = repo.List(ctx, models.StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 1)
}

func TestStudentRepositoryDerivedAndEnrolledCourses(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	student := &models.Student{RegNo: "2024-001", FullName: "Ada", Active: true}
	require.NoError(t, repo.Create(ctx, student))

	require.NoError(t, repo.SetDerived(ctx, student.ID, 3.5, 12))
	require.NoError(t, repo.AddEnrolledCourse(ctx, student.ID, "CSE101"))
	require.NoError(t, repo.AddEnrolledCourse(ctx, student.ID, "CSE101"))

	found, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, found.GPA)
	assert.Equal(t, 12, found.TotalCredits)
	assert.Equal(t, []string{"CSE101"}, found.EnrolledCourses)

	require.NoError(t, repo.RemoveEnrolledCourse(ctx, student.ID, "CSE101"))
	found, err = repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, found.EnrolledCourses)
}

func TestStudentRepositoryReplaceAll(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Student{RegNo: "2024-001", FullName: "Ada", Active: true}))
	require.NoError(t, repo.ReplaceAll(ctx, []models.Student{
		{ID: "s1", RegNo: "2025-001", FullName: "Grace", Active: true},
	}))

	_, total, err := repo.List(ctx, models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	found, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", found.FullName)
}
