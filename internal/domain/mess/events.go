package mess

import (
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStudent   = "Student"
	AggregateTypeMenuEntry = "MenuEntry"
)

// Mess domain event types
const (
	EventTypeStudentCreated     = "StudentCreated"
	EventTypeStudentDeleted     = "StudentDeleted"
	EventTypeMenuEntryCreated   = "MenuEntryCreated"
	EventTypeMenuEntryDeleted   = "MenuEntryDeleted"
	EventTypeAttendanceMarked   = "AttendanceMarked"
	EventTypeAllergyReportFiled = "AllergyReportFiled"
)

// StudentCreatedEvent is published when a student record is created
type StudentCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Room     string `json:"room"`
	FoodType string `json:"food_type"`
}

// NewStudentCreatedEvent creates a new StudentCreatedEvent
func NewStudentCreatedEvent(student *Student) *StudentCreatedEvent {
	return &StudentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentCreated, AggregateTypeStudent, student.ID),
		Name:            student.Name,
		Room:            student.Room,
		FoodType:        student.FoodType,
	}
}

// StudentDeletedEvent is published when a student record is deleted
type StudentDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewStudentDeletedEvent creates a new StudentDeletedEvent
func NewStudentDeletedEvent(student *Student) *StudentDeletedEvent {
	return &StudentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentDeleted, AggregateTypeStudent, student.ID),
		Name:            student.Name,
	}
}

// MenuEntryCreatedEvent is published when a menu entry is created
type MenuEntryCreatedEvent struct {
	shared.BaseDomainEvent
	Day  string `json:"day"`
	Meal string `json:"meal"`
	Item string `json:"item"`
}

// NewMenuEntryCreatedEvent creates a new MenuEntryCreatedEvent
func NewMenuEntryCreatedEvent(entry *MenuEntry) *MenuEntryCreatedEvent {
	return &MenuEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuEntryCreated, AggregateTypeMenuEntry, entry.ID),
		Day:             entry.Day,
		Meal:            entry.Meal,
		Item:            entry.Item,
	}
}

// MenuEntryDeletedEvent is published when a menu entry is deleted
type MenuEntryDeletedEvent struct {
	shared.BaseDomainEvent
	Day  string `json:"day"`
	Item string `json:"item"`
}

// NewMenuEntryDeletedEvent creates a new MenuEntryDeletedEvent
func NewMenuEntryDeletedEvent(entry *MenuEntry) *MenuEntryDeletedEvent {
	return &MenuEntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMenuEntryDeleted, AggregateTypeMenuEntry, entry.ID),
		Day:             entry.Day,
		Item:            entry.Item,
	}
}

// Attendance mark sources
const (
	MarkSourceStaff = "staff"
	MarkSourceSelf  = "self"
)

// AllergyReportFiledEvent is published when a student files an allergy
// report against a menu entry
type AllergyReportFiledEvent struct {
	shared.BaseDomainEvent
	StudentID   uuid.UUID `json:"student_id"`
	MenuEntryID uuid.UUID `json:"menu_entry_id"`
	Date        time.Time `json:"date"`
}

// NewAllergyReportFiledEvent creates a new AllergyReportFiledEvent
func NewAllergyReportFiledEvent(report *AllergyReport) *AllergyReportFiledEvent {
	return &AllergyReportFiledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllergyReportFiled, AggregateTypeStudent, report.StudentID),
		StudentID:       report.StudentID,
		MenuEntryID:     report.MenuEntryID,
		Date:            report.Date,
	}
}

// AttendanceMarkedEvent is published the first time a student is marked
// present for a date; idempotent re-marks do not publish it again
type AttendanceMarkedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	Date      time.Time `json:"date"`
	Source    string    `json:"source"`
}

// NewAttendanceMarkedEvent creates a new AttendanceMarkedEvent
func NewAttendanceMarkedEvent(studentID uuid.UUID, date time.Time, source string) *AttendanceMarkedEvent {
	return &AttendanceMarkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttendanceMarked, AggregateTypeStudent, studentID),
		StudentID:       studentID,
		Date:            DateOnly(date),
		Source:          source,
	}
}
