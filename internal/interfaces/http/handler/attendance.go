package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmess "github.com/messhall/backend/internal/application/mess"
)

const dateLayout = "2006-01-02"

// AttendanceHandler handles daily attendance HTTP requests
type AttendanceHandler struct {
	BaseHandler
	attendanceService *appmess.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *appmess.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// MarkAttendanceRequest represents the request body for a batch mark.
// Date is optional ("2006-01-02"); empty means today. An empty or
// missing student_ids list is a valid no-op.
type MarkAttendanceRequest struct {
	StudentIDs []string `json:"student_ids" binding:"omitempty,dive,uuid"`
	Date       string   `json:"date" binding:"omitempty"`
}

// parseDate parses an optional date string; empty yields the zero time,
// which the service treats as today.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// Mark marks a batch of students present for a date. Re-marking an
// already-present student is reported, not an error.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: student_ids must be a list of UUIDs")
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	studentIDs := make([]uuid.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid student ID: "+raw)
			return
		}
		studentIDs = append(studentIDs, id)
	}

	result, err := h.attendanceService.MarkAttendance(c.Request.Context(), appmess.MarkAttendanceInput{
		StudentIDs: studentIDs,
		Date:       date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Roster lists every student with their presence for a date (query
// parameter "date", default today), the view staff mark from
func (h *AttendanceHandler) Roster(c *gin.Context) {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.attendanceService.Roster(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkSelf marks the authenticated student present for today
func (h *AttendanceHandler) MarkSelf(c *gin.Context) {
	studentID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.attendanceService.MarkSelf(c.Request.Context(), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Status reports whether the authenticated student is marked present for
// a date (query parameter "date", default today)
func (h *AttendanceHandler) Status(c *gin.Context) {
	studentID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	result, err := h.attendanceService.Status(c.Request.Context(), studentID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Count returns the number of students marked present for a date (query
// parameter "date", default today)
func (h *AttendanceHandler) Count(c *gin.Context) {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	count, err := h.attendanceService.CountForDate(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"date":  date.Format(dateLayout),
		"count": count,
	})
}
