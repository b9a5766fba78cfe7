package mess

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttendanceService records daily presence. Marking is idempotent per
// (student, date): the first mark counts, every later one is a no-op,
// and the repository's transactional insert makes that hold under
// concurrent requests too.
type AttendanceService struct {
	attendanceRepo mess.AttendanceRepository
	studentRepo    mess.StudentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo mess.AttendanceRepository,
	studentRepo mess.StudentRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// MarkAttendance marks the listed students present for the date and
// reports each one's outcome. Students absent from the list are left
// untouched; unknown IDs are reported, not fatal. A zero date means
// today.
func (s *AttendanceService) MarkAttendance(ctx context.Context, input MarkAttendanceInput) (*MarkAttendanceResult, error) {
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = mess.DateOnly(date)

	result := &MarkAttendanceResult{
		Date:          date,
		Marked:        make([]uuid.UUID, 0, len(input.StudentIDs)),
		AlreadyMarked: make([]uuid.UUID, 0),
		Missing:       make([]uuid.UUID, 0),
	}

	for _, studentID := range input.StudentIDs {
		inserted, err := s.attendanceRepo.MarkPresent(ctx, studentID, date)
		switch {
		case err == shared.ErrNotFound:
			result.Missing = append(result.Missing, studentID)
		case err != nil:
			s.logger.Error("Failed to mark attendance",
				zap.String("student_id", studentID.String()),
				zap.Time("date", date),
				zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record attendance")
		case inserted:
			result.Marked = append(result.Marked, studentID)
			s.publishMarked(ctx, studentID, date, mess.MarkSourceStaff)
		default:
			result.AlreadyMarked = append(result.AlreadyMarked, studentID)
		}
	}

	s.logger.Info("Attendance batch recorded",
		zap.Time("date", date),
		zap.Int("marked", len(result.Marked)),
		zap.Int("already_marked", len(result.AlreadyMarked)),
		zap.Int("missing", len(result.Missing)))

	return result, nil
}

// MarkSelf marks the authenticated student present for today. Safe to
// call repeatedly; only the first call per day counts.
func (s *AttendanceService) MarkSelf(ctx context.Context, studentID uuid.UUID) (*SelfAttendanceResult, error) {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		return nil, shared.ErrSessionInvalid
	}

	date := mess.DateOnly(time.Now())

	inserted, err := s.attendanceRepo.MarkPresent(ctx, studentID, date)
	if err != nil {
		s.logger.Error("Failed to mark self attendance",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record attendance")
	}

	if inserted {
		s.publishMarked(ctx, studentID, date, mess.MarkSourceSelf)
		s.logger.Info("Student marked self present",
			zap.String("student_id", studentID.String()),
			zap.Time("date", date))
	}

	return &SelfAttendanceResult{Date: date, AlreadyMarked: !inserted}, nil
}

// Roster returns every student alongside their presence for the date,
// the view staff mark attendance from. A zero date means today.
func (s *AttendanceService) Roster(ctx context.Context, date time.Time) (*RosterResult, error) {
	if date.IsZero() {
		date = time.Now()
	}
	date = mess.DateOnly(date)

	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load roster", zap.Error(err))
		return nil, err
	}

	records, err := s.attendanceRepo.FindByDate(ctx, date)
	if err != nil {
		s.logger.Error("Failed to load attendance for roster",
			zap.Time("date", date),
			zap.Error(err))
		return nil, err
	}

	present := make(map[uuid.UUID]bool, len(records))
	for _, record := range records {
		present[record.StudentID] = true
	}

	result := &RosterResult{
		Date:    date,
		Entries: make([]RosterEntry, 0, len(students)),
	}
	for _, student := range students {
		result.Entries = append(result.Entries, RosterEntry{
			StudentInfo: studentToInfo(student),
			Present:     present[student.ID],
		})
	}

	return result, nil
}

// Status reports whether a student is marked present for a date
func (s *AttendanceService) Status(ctx context.Context, studentID uuid.UUID, date time.Time) (*AttendanceStatusResult, error) {
	date = mess.DateOnly(date)

	present, err := s.attendanceRepo.ExistsForDate(ctx, studentID, date)
	if err != nil {
		s.logger.Error("Failed to check attendance status",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		return nil, err
	}

	return &AttendanceStatusResult{Date: date, Present: present}, nil
}

// CountForDate returns how many students are marked present on a date
func (s *AttendanceService) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	return s.attendanceRepo.CountByDate(ctx, date)
}

// Recount recomputes every student's days-present counter from the
// attendance records. The nightly job calls this to repair drift.
func (s *AttendanceService) Recount(ctx context.Context) error {
	if err := s.attendanceRepo.RecountDaysPresent(ctx); err != nil {
		s.logger.Error("Attendance recount failed", zap.Error(err))
		return err
	}
	s.logger.Info("Attendance counters recounted")
	return nil
}

// publishMarked publishes the first-mark event; re-marks never get here
func (s *AttendanceService) publishMarked(ctx context.Context, studentID uuid.UUID, date time.Time, source string) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, mess.NewAttendanceMarkedEvent(studentID, date, source)); err != nil {
		s.logger.Warn("Failed to publish attendance event",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
	}
}
