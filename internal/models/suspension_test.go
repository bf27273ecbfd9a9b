package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSuspensionLength(t *testing.T) {
	valid := []float64{0.5, 1, 1.5, 2.5, 4.5, 5}
	for _, days := range valid {
		assert.True(t, ValidSuspensionLength(days), "%v should be valid", days)
	}

	invalid := []float64{0, 0.25, 0.75, 1.2, 5.5, -1, 10}
	for _, days := range invalid {
		assert.False(t, ValidSuspensionLength(days), "%v should be invalid", days)
	}
}

func TestValidYearGroup(t *testing.T) {
	for _, y := range YearGroups {
		assert.True(t, ValidYearGroup(y))
	}
	assert.False(t, ValidYearGroup(6))
	assert.False(t, ValidYearGroup(12))
	assert.False(t, ValidYearGroup(0))
}

func TestDateFieldColumn(t *testing.T) {
	assert.Equal(t, "incident_date", DateFieldIncident.Column())
	assert.Equal(t, "start_date", DateFieldStart.Column())
	assert.Equal(t, "end_date", DateFieldEnd.Column())
	// Unknown selectors default to the incident date.
	assert.Equal(t, "incident_date", DateField("created").Column())
}

func TestApprovalStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ApprovalStatus("maybe").Valid())
}

func TestDaySessionValid(t *testing.T) {
	assert.True(t, SessionAM.Valid())
	assert.True(t, SessionPM.Valid())
	assert.False(t, DaySession("noon").Valid())
	assert.False(t, DaySession("am").Valid())
}
