package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StudentModel is the persistence model for the Student entity.
// Students are soft-deleted: staff remove them from the roster but the
// row is retained. Attendance and allergy report rows are removed
// eagerly by the repository when the student is deleted.
type StudentModel struct {
	AggregateModel
	Name         string         `gorm:"type:varchar(100);not null"`
	Username     string         `gorm:"type:varchar(50)"`
	PasswordHash string         `gorm:"type:varchar(255)"`
	Room         string         `gorm:"type:varchar(50)"`
	Allergies    string         `gorm:"type:varchar(200)"`
	FoodType     string         `gorm:"type:varchar(20)"`
	DaysPresent  int            `gorm:"not null;default:0"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student entity.
func (m *StudentModel) ToDomain() *mess.Student {
	s := &mess.Student{
		Name:         m.Name,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Room:         m.Room,
		Allergies:    m.Allergies,
		FoodType:     m.FoodType,
		DaysPresent:  m.DaysPresent,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Student entity.
func (m *StudentModel) FromDomain(s *mess.Student) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Username = s.Username
	m.PasswordHash = s.PasswordHash
	m.Room = s.Room
	m.Allergies = s.Allergies
	m.FoodType = s.FoodType
	m.DaysPresent = s.DaysPresent
}

// StudentModelFromDomain creates a new persistence model from a domain Student entity.
func StudentModelFromDomain(s *mess.Student) *StudentModel {
	m := &StudentModel{}
	m.FromDomain(s)
	return m
}

// MenuEntryModel is the persistence model for the MenuEntry entity.
// Menu entries are hard-deleted; referencing allergy reports go with
// them via the foreign key cascade.
type MenuEntryModel struct {
	AggregateModel
	Day      string           `gorm:"type:varchar(20);not null;index"`
	Meal     string           `gorm:"type:varchar(20);not null"`
	Item     string           `gorm:"type:varchar(100);not null"`
	FoodType string           `gorm:"type:varchar(20)"`
	Cost     *decimal.Decimal `gorm:"type:numeric(10,2)"`
}

// TableName returns the table name for GORM
func (MenuEntryModel) TableName() string {
	return "menu_entries"
}

// ToDomain converts the persistence model to a domain MenuEntry entity.
func (m *MenuEntryModel) ToDomain() *mess.MenuEntry {
	e := &mess.MenuEntry{
		Day:      m.Day,
		Meal:     m.Meal,
		Item:     m.Item,
		FoodType: m.FoodType,
		Cost:     m.Cost,
	}
	m.PopulateAggregateRoot(&e.BaseAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain MenuEntry entity.
func (m *MenuEntryModel) FromDomain(e *mess.MenuEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Day = e.Day
	m.Meal = e.Meal
	m.Item = e.Item
	m.FoodType = e.FoodType
	m.Cost = e.Cost
}

// MenuEntryModelFromDomain creates a new persistence model from a domain MenuEntry entity.
func MenuEntryModelFromDomain(e *mess.MenuEntry) *MenuEntryModel {
	m := &MenuEntryModel{}
	m.FromDomain(e)
	return m
}

// AttendanceModel is the persistence model for the Attendance record.
// The (student_id, date) pair carries a unique constraint so concurrent
// marks for the same student and day cannot double-insert.
type AttendanceModel struct {
	BaseModel
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_date;index"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendances"
}

// ToDomain converts the persistence model to a domain Attendance record.
func (m *AttendanceModel) ToDomain() *mess.Attendance {
	return &mess.Attendance{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		StudentID: m.StudentID,
		Date:      mess.DateOnly(m.Date),
	}
}

// FromDomain populates the persistence model from a domain Attendance record.
func (m *AttendanceModel) FromDomain(a *mess.Attendance) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.StudentID = a.StudentID
	m.Date = mess.DateOnly(a.Date)
}

// AllergyReportModel is the persistence model for the AllergyReport entity.
type AllergyReportModel struct {
	BaseModel
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index"`
	MenuEntryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Note        string    `gorm:"type:varchar(200)"`
	Date        time.Time `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (AllergyReportModel) TableName() string {
	return "allergy_reports"
}

// ToDomain converts the persistence model to a domain AllergyReport entity.
func (m *AllergyReportModel) ToDomain() *mess.AllergyReport {
	return &mess.AllergyReport{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		StudentID:   m.StudentID,
		MenuEntryID: m.MenuEntryID,
		Note:        m.Note,
		Date:        mess.DateOnly(m.Date),
	}
}

// FromDomain populates the persistence model from a domain AllergyReport entity.
func (m *AllergyReportModel) FromDomain(r *mess.AllergyReport) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.StudentID = r.StudentID
	m.MenuEntryID = r.MenuEntryID
	m.Note = r.Note
	m.Date = mess.DateOnly(r.Date)
}
