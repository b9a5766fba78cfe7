package mess

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/shared"
)

// AllergyReport is a student-filed note flagging a menu entry against
// their allergies. Removed in cascade with either the student or the
// menu entry it references.
type AllergyReport struct {
	shared.BaseEntity
	StudentID   uuid.UUID
	MenuEntryID uuid.UUID
	Note        string
	Date        time.Time
}

// NewAllergyReport creates a report dated to the given day
func NewAllergyReport(studentID, menuEntryID uuid.UUID, note string, date time.Time) (*AllergyReport, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT_ID", "Student ID cannot be empty")
	}
	if menuEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU_ENTRY_ID", "Menu entry ID cannot be empty")
	}

	note = strings.TrimSpace(note)
	if len(note) > 200 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 200 characters")
	}

	return &AllergyReport{
		BaseEntity:  shared.NewBaseEntity(),
		StudentID:   studentID,
		MenuEntryID: menuEntryID,
		Note:        note,
		Date:        DateOnly(date),
	}, nil
}
