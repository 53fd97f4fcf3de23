package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Code", "Title", "Credits"},
		Rows: []map[string]string{
			{"Code": "CSE101", "Title": "Intro to CS", "Credits": "3"},
			{"Code": "MAT201", "Title": "Calculus", "Credits": "4"},
		},
		Summary: []string{"Overall GPA: 3.50"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Code,Title,Credits", lines[0])
	assert.Equal(t, "CSE101,Intro to CS,3", lines[1])
	assert.Equal(t, "MAT201,Calculus,4", lines[2])
	assert.Equal(t, "Overall GPA: 3.50", lines[3])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(), "Transcript - Ada Lovelace")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
	assert.NotEmpty(t, payload)
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "empty")
	assert.Error(t, err)
}
