package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSV(t *testing.T) {
	table := Table{
		Columns: []string{"Student", "Year", "Days"},
		Rows: [][]string{
			{"Jamie Smith", "9", "2.5"},
			{"Alex Jones", "7"},
		},
	}

	data, err := RenderCSV(table)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Year,Days", lines[0])
	assert.Equal(t, "Jamie Smith,9,2.5", lines[1])
	// A short row is padded to the column count.
	assert.Equal(t, "Alex Jones,7,", lines[2])
}

func TestRenderCSVNoColumns(t *testing.T) {
	_, err := RenderCSV(Table{})
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	table := Table{
		Title:   "Suspension Register",
		Columns: []string{"Student", "Year"},
		Rows:    [][]string{{"Jamie Smith", "9"}},
	}

	data, err := RenderPDF(table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
