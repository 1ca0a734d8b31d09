package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeOfDay struct {
	Hours   int `json:"hours" validate:"min=0,max=23"`
	Minutes int `json:"minutes" validate:"min=0,max=59"`
}

type scheduleRequest struct {
	UserID    string    `json:"userId" validate:"required,doc-id"`
	Task      string    `json:"task" validate:"required,not-blank"`
	Date      string    `json:"date" validate:"required,schedule-date"`
	StartTime timeOfDay `json:"start_time"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(&scheduleRequest{
		UserID:    "u1",
		Task:      "Read chapter 3",
		Date:      "2024-05-01",
		StartTime: timeOfDay{Hours: 9, Minutes: 30},
	})
	assert.NoError(t, err)

	err = v.Validate(&scheduleRequest{
		UserID: "u1",
		Task:   "Quiz",
		Date:   "2024-05-01T09:30:00Z",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldNamesFromJSONTags(t *testing.T) {
	v := New()

	err := v.Validate(&scheduleRequest{
		UserID:    "users/u1",
		Task:      "   ",
		Date:      "01.05.2024",
		StartTime: timeOfDay{Hours: 25, Minutes: 0},
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)

	assert.Equal(t, "Must be a valid document id", vErr.Errors["userId"])
	assert.Equal(t, "Must not be blank", vErr.Errors["task"])
	assert.Contains(t, vErr.Errors["date"], "YYYY-MM-DD")
	assert.Equal(t, "Must be at most 23", vErr.Errors["start_time.hours"])
	assert.Contains(t, vErr.Error(), "field 'date'")
}
