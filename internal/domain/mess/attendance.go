package mess

import (
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/shared"
)

// Attendance records that a student was present on a date.
// At most one record may exist per (student, date); the store enforces
// this with a unique constraint so concurrent marks cannot double-insert.
// Records are removed when the owning student is deleted.
type Attendance struct {
	shared.BaseEntity
	StudentID uuid.UUID
	Date      time.Time
}

// NewAttendance creates an attendance record for the given date.
// The date is truncated to its day; attendance has day granularity.
func NewAttendance(studentID uuid.UUID, date time.Time) (*Attendance, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT_ID", "Student ID cannot be empty")
	}

	return &Attendance{
		BaseEntity: shared.NewBaseEntity(),
		StudentID:  studentID,
		Date:       DateOnly(date),
	}, nil
}

// DateOnly truncates a timestamp to midnight UTC, the canonical form for
// attendance dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayName returns the English full weekday name for a date, the key
// used to select "today's" menu entries.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}
