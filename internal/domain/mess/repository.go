package mess

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StudentRepository defines the interface for student persistence
type StudentRepository interface {
	// Create creates a new student
	Create(ctx context.Context, student *Student) error

	// Update updates an existing student
	Update(ctx context.Context, student *Student) error

	// Delete deletes a student by ID; attendance and allergy reports
	// owned by the student are removed in cascade
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a student by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)

	// FindByUsername finds a student by login username
	FindByUsername(ctx context.Context, username string) (*Student, error)

	// FindAll returns all students in insertion order
	FindAll(ctx context.Context) ([]*Student, error)

	// FindPresentOn returns students having an attendance record on the
	// given date (inner join; never-marked students are excluded)
	FindPresentOn(ctx context.Context, date time.Time) ([]*Student, error)

	// Count returns the total number of students
	Count(ctx context.Context) (int64, error)
}

// MenuRepository defines the interface for menu entry persistence
type MenuRepository interface {
	// Create creates a new menu entry
	Create(ctx context.Context, entry *MenuEntry) error

	// Delete deletes a menu entry by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a menu entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MenuEntry, error)

	// FindAll returns all menu entries in insertion order
	FindAll(ctx context.Context) ([]*MenuEntry, error)

	// FindByDay returns all entries whose day equals the given weekday name
	FindByDay(ctx context.Context, day string) ([]*MenuEntry, error)

	// Count returns the total number of menu entries
	Count(ctx context.Context) (int64, error)
}

// AttendanceRepository defines the interface for attendance persistence
type AttendanceRepository interface {
	// MarkPresent atomically records the student present for the date and
	// increments the student's days-present counter. Returns true if a new
	// record was inserted, false if the student was already marked for
	// that date (in which case nothing changes). The whole sequence runs
	// in one transaction guarded by the (student_id, date) unique
	// constraint, so concurrent marks cannot double-count.
	MarkPresent(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error)

	// ExistsForDate reports whether the student is marked for the date
	ExistsForDate(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error)

	// FindByDate returns all attendance records for the date
	FindByDate(ctx context.Context, date time.Time) ([]*Attendance, error)

	// FindByStudent returns all attendance records for a student
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*Attendance, error)

	// CountByDate returns the number of students marked for the date
	CountByDate(ctx context.Context, date time.Time) (int64, error)

	// RecountDaysPresent recomputes every student's days-present counter
	// from their attendance rows, repairing any drift
	RecountDaysPresent(ctx context.Context) error
}

// AllergyReportRepository defines the interface for allergy report persistence
type AllergyReportRepository interface {
	// Create creates a new allergy report
	Create(ctx context.Context, report *AllergyReport) error

	// FindAll returns all reports, newest first
	FindAll(ctx context.Context) ([]*AllergyReport, error)

	// FindByDate returns reports filed on the given date
	FindByDate(ctx context.Context, date time.Time) ([]*AllergyReport, error)
}
