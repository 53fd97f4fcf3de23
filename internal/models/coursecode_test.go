package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourseCode(t *testing.T) {
	code, err := ParseCourseCode("CSE101")
	require.NoError(t, err)
	assert.Equal(t, "CSE", code.Department())
	assert.Equal(t, "101", code.Number())
	assert.Equal(t, "CSE101", code.String())

	code, err = ParseCourseCode("mat201")
	require.NoError(t, err)
	assert.Equal(t, "MAT", code.Department())
	assert.Equal(t, "201", code.Number())
}

func TestParseCourseCodeInvalid(t *testing.T) {
	for _, raw := range []string{"", "101", "CSE", "CSE-101x"} {
		_, err := ParseCourseCode(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
