package mess

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttendance(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		studentID := uuid.New()
		att, err := NewAttendance(studentID, time.Date(2026, 3, 9, 14, 30, 12, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, studentID, att.StudentID)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), att.Date)
	})

	t.Run("nil student id", func(t *testing.T) {
		_, err := NewAttendance(uuid.Nil, time.Now())
		assert.Error(t, err)
	})
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2026, 8, 29, 23, 59, 59, 999, time.UTC))
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestWeekdayName(t *testing.T) {
	// 2026-03-09 is a Monday
	assert.Equal(t, "Monday", WeekdayName(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Sunday", WeekdayName(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
}

func TestNewAllergyReport(t *testing.T) {
	t.Run("valid report", func(t *testing.T) {
		report, err := NewAllergyReport(uuid.New(), uuid.New(), "rash after lunch", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "rash after lunch", report.Note)
	})

	t.Run("nil menu entry id", func(t *testing.T) {
		_, err := NewAllergyReport(uuid.New(), uuid.Nil, "", time.Now())
		assert.Error(t, err)
	})
}
