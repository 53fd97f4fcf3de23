package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemestersOrder(t *testing.T) {
	want := []Semester{
		SemesterFall2024,
		SemesterSpring2025,
		SemesterSummer2025,
		SemesterFall2025,
		SemesterSpring2026,
		SemesterSummer2026,
	}
	assert.Equal(t, want, Semesters())
}

func TestSemesterNext(t *testing.T) {
	assert.Equal(t, SemesterSpring2025, SemesterFall2024.Next())
	assert.Equal(t, SemesterFall2025, SemesterSummer2025.Next())
	// The last defined semester is its own successor.
	assert.Equal(t, SemesterSummer2026, SemesterSummer2026.Next())
}

func TestSemesterDisplay(t *testing.T) {
	assert.Equal(t, "Fall 2024", SemesterFall2024.Display())
	assert.Equal(t, "Spring 2026", SemesterSpring2026.Display())
	assert.Equal(t, "Summer", SemesterSummer2025.Season())
	assert.Equal(t, 2025, SemesterSummer2025.Year())
}

func TestParseSemester(t *testing.T) {
	s, err := ParseSemester("FALL_2024")
	require.NoError(t, err)
	assert.Equal(t, SemesterFall2024, s)

	s, err = ParseSemester("Spring 2025")
	require.NoError(t, err)
	assert.Equal(t, SemesterSpring2025, s)

	s, err = ParseSemester(" summer_2026 ")
	require.NoError(t, err)
	assert.Equal(t, SemesterSummer2026, s)

	_, err = ParseSemester("WINTER_2024")
	assert.Error(t, err)
}
