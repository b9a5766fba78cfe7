package mess

import (
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
)

// StudentInfo is the roster view of a student
type StudentInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username,omitempty"`
	Room        string    `json:"room"`
	Allergies   string    `json:"allergies"`
	FoodType    string    `json:"food_type"`
	DaysPresent int       `json:"days_present"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateStudentInput carries the data for creating a student.
// Username and Password are optional but must be provided together;
// a student without them cannot log in.
type CreateStudentInput struct {
	Name      string `json:"name"`
	Room      string `json:"room"`
	Allergies string `json:"allergies"`
	FoodType  string `json:"food_type"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// UpdateStudentInput carries the data for updating a student's roster
// fields. Credentials are replaced only when both Username and Password
// are present; otherwise the existing ones are kept.
type UpdateStudentInput struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Room      string    `json:"room"`
	Allergies string    `json:"allergies"`
	FoodType  string    `json:"food_type"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
}

// DeleteStudentResult reports the outcome of a student delete. Deleting
// an id that is not on the roster yields a notice, not an error; menu
// entry deletes fail hard instead.
type DeleteStudentResult struct {
	Deleted bool   `json:"deleted"`
	Notice  string `json:"notice,omitempty"`
}

// MenuEntryInfo is the staff view of a menu entry
type MenuEntryInfo struct {
	ID        uuid.UUID `json:"id"`
	Day       string    `json:"day"`
	Meal      string    `json:"meal"`
	Item      string    `json:"item"`
	FoodType  string    `json:"food_type"`
	Cost      *string   `json:"cost,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMenuEntryInput carries the data for creating a menu entry.
// Cost is an optional decimal string.
type CreateMenuEntryInput struct {
	Day      string `json:"day"`
	Meal     string `json:"meal"`
	Item     string `json:"item"`
	FoodType string `json:"food_type"`
	Cost     string `json:"cost"`
}

// StudentMenuEntry is one entry of a student's personalised daily menu,
// flagged when the item conflicts with the student's recorded allergies
type StudentMenuEntry struct {
	MenuEntryInfo
	AllergyConflict bool `json:"allergy_conflict"`
}

// StudentMenuResult is a student's menu for one date, with entries that
// conflict with the student's allergies flagged
type StudentMenuResult struct {
	Date    time.Time          `json:"date"`
	Day     string             `json:"day"`
	Entries []StudentMenuEntry `json:"entries"`
}

// MarkAttendanceInput selects the students to mark present for a date.
// A zero Date means today.
type MarkAttendanceInput struct {
	StudentIDs []uuid.UUID `json:"student_ids"`
	Date       time.Time   `json:"date"`
}

// MarkAttendanceResult reports the outcome of a batch mark per student:
// newly marked, already marked for the date, or unknown ID. Students not
// listed in the request are untouched.
type MarkAttendanceResult struct {
	Date          time.Time   `json:"date"`
	Marked        []uuid.UUID `json:"marked"`
	AlreadyMarked []uuid.UUID `json:"already_marked"`
	Missing       []uuid.UUID `json:"missing"`
}

// SelfAttendanceResult reports a student's self mark-in for today
type SelfAttendanceResult struct {
	Date          time.Time `json:"date"`
	AlreadyMarked bool      `json:"already_marked"`
}

// RosterEntry pairs a student with their presence on one date
type RosterEntry struct {
	StudentInfo
	Present bool `json:"present"`
}

// RosterResult is the staff marking view: every student on the roster
// with a flag for whether they are already marked present for the date
type RosterResult struct {
	Date    time.Time     `json:"date"`
	Entries []RosterEntry `json:"entries"`
}

// AttendanceStatusResult reports whether a student is marked for a date
type AttendanceStatusResult struct {
	Date    time.Time `json:"date"`
	Present bool      `json:"present"`
}

// AllergyConflictInfo flags one (present student, menu entry) pair where
// the item name contains the student's allergy string
type AllergyConflictInfo struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	Allergies   string    `json:"allergies"`
	MenuEntryID uuid.UUID `json:"menu_entry_id"`
	Item        string    `json:"item"`
	Meal        string    `json:"meal"`
}

// FoodCountResult is the kitchen provisioning report for a date: how
// many students are present split by diet category, the day's menu, any
// allergy conflicts among present students, and an estimated cost when
// the menu carries per-serving costs
type FoodCountResult struct {
	Date          time.Time             `json:"date"`
	Day           string                `json:"day"`
	TotalPresent  int                   `json:"total_present"`
	VegCount      int                   `json:"veg_count"`
	NonVegCount   int                   `json:"non_veg_count"`
	Menu          []MenuEntryInfo       `json:"menu"`
	Conflicts     []AllergyConflictInfo `json:"conflicts"`
	EstimatedCost *string               `json:"estimated_cost,omitempty"`
}

// DashboardResult carries the admin landing-page counters
type DashboardResult struct {
	TotalStudents    int64 `json:"total_students"`
	TotalMenuEntries int64 `json:"total_menu_entries"`
	PresentToday     int64 `json:"present_today"`
}

// FileAllergyReportInput carries a student's report against a menu entry
type FileAllergyReportInput struct {
	StudentID   uuid.UUID `json:"student_id"`
	MenuEntryID uuid.UUID `json:"menu_entry_id"`
	Note        string    `json:"note"`
	Date        time.Time `json:"date"`
}

// AllergyReportInfo is the staff view of a filed allergy report
type AllergyReportInfo struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	MenuEntryID uuid.UUID `json:"menu_entry_id"`
	Note        string    `json:"note"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func studentToInfo(student *mess.Student) StudentInfo {
	return StudentInfo{
		ID:          student.ID,
		Name:        student.Name,
		Username:    student.Username,
		Room:        student.Room,
		Allergies:   student.Allergies,
		FoodType:    student.FoodType,
		DaysPresent: student.DaysPresent,
		CreatedAt:   student.CreatedAt,
	}
}

func studentsToInfo(students []*mess.Student) []StudentInfo {
	infos := make([]StudentInfo, 0, len(students))
	for _, student := range students {
		infos = append(infos, studentToInfo(student))
	}
	return infos
}

func menuEntryToInfo(entry *mess.MenuEntry) MenuEntryInfo {
	info := MenuEntryInfo{
		ID:        entry.ID,
		Day:       entry.Day,
		Meal:      entry.Meal,
		Item:      entry.Item,
		FoodType:  entry.FoodType,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Cost != nil {
		cost := entry.Cost.StringFixed(2)
		info.Cost = &cost
	}
	return info
}

func menuEntriesToInfo(entries []*mess.MenuEntry) []MenuEntryInfo {
	infos := make([]MenuEntryInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, menuEntryToInfo(entry))
	}
	return infos
}

func allergyReportToInfo(report *mess.AllergyReport) AllergyReportInfo {
	return AllergyReportInfo{
		ID:          report.ID,
		StudentID:   report.StudentID,
		MenuEntryID: report.MenuEntryID,
		Note:        report.Note,
		Date:        report.Date,
		CreatedAt:   report.CreatedAt,
	}
}
