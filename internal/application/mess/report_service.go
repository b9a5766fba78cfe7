package mess

import (
	"context"
	"time"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService produces the kitchen's food-count report, the admin
// dashboard counters, and handles student allergy reports
type ReportService struct {
	studentRepo    mess.StudentRepository
	menuRepo       mess.MenuRepository
	attendanceRepo mess.AttendanceRepository
	allergyRepo    mess.AllergyReportRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	studentRepo mess.StudentRepository,
	menuRepo mess.MenuRepository,
	attendanceRepo mess.AttendanceRepository,
	allergyRepo mess.AllergyReportRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		studentRepo:    studentRepo,
		menuRepo:       menuRepo,
		attendanceRepo: attendanceRepo,
		allergyRepo:    allergyRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// FoodCount builds the provisioning report for a date: present students
// split veg / non-veg, the weekday's menu, allergy conflicts among the
// present students, and an estimated cost when menu entries carry
// per-serving costs. Each costed entry is assumed to serve its own diet
// group once.
func (s *ReportService) FoodCount(ctx context.Context, date time.Time) (*FoodCountResult, error) {
	date = mess.DateOnly(date)
	day := mess.WeekdayName(date)

	present, err := s.studentRepo.FindPresentOn(ctx, date)
	if err != nil {
		s.logger.Error("Failed to load present students", zap.Time("date", date), zap.Error(err))
		return nil, err
	}

	menu, err := s.menuRepo.FindByDay(ctx, day)
	if err != nil {
		s.logger.Error("Failed to load menu for report", zap.String("day", day), zap.Error(err))
		return nil, err
	}

	result := &FoodCountResult{
		Date:         date,
		Day:          day,
		TotalPresent: len(present),
		Menu:         menuEntriesToInfo(menu),
		Conflicts:    make([]AllergyConflictInfo, 0),
	}

	for _, student := range present {
		if student.IsVeg() {
			result.VegCount++
		} else {
			result.NonVegCount++
		}
		for _, entry := range menu {
			if entry.ConflictsWith(student.Allergies) {
				result.Conflicts = append(result.Conflicts, AllergyConflictInfo{
					StudentID:   student.ID,
					StudentName: student.Name,
					Allergies:   student.Allergies,
					MenuEntryID: entry.ID,
					Item:        entry.Item,
					Meal:        entry.Meal,
				})
			}
		}
	}

	if cost, ok := estimateCost(menu, result.VegCount, result.NonVegCount); ok {
		formatted := cost.StringFixed(2)
		result.EstimatedCost = &formatted
	}

	return result, nil
}

// Dashboard returns the admin landing-page counters
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	students, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.menuRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	presentToday, err := s.attendanceRepo.CountByDate(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	return &DashboardResult{
		TotalStudents:    students,
		TotalMenuEntries: entries,
		PresentToday:     presentToday,
	}, nil
}

// FileAllergyReport records a student's report against a menu entry.
// The student must still exist; the menu entry must exist.
func (s *ReportService) FileAllergyReport(ctx context.Context, input FileAllergyReportInput) (*AllergyReportInfo, error) {
	if _, err := s.studentRepo.FindByID(ctx, input.StudentID); err != nil {
		return nil, shared.ErrSessionInvalid
	}

	if _, err := s.menuRepo.FindByID(ctx, input.MenuEntryID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	report, err := mess.NewAllergyReport(input.StudentID, input.MenuEntryID, input.Note, date)
	if err != nil {
		return nil, err
	}

	if err := s.allergyRepo.Create(ctx, report); err != nil {
		s.logger.Error("Failed to create allergy report", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to file allergy report")
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, mess.NewAllergyReportFiledEvent(report)); err != nil {
			s.logger.Warn("Failed to publish allergy report filed event", zap.Error(err))
		}
	}

	s.logger.Info("Allergy report filed",
		zap.String("student_id", input.StudentID.String()),
		zap.String("menu_entry_id", input.MenuEntryID.String()))

	info := allergyReportToInfo(report)
	return &info, nil
}

// ListAllergyReports returns reports newest first, optionally filtered
// to one date
func (s *ReportService) ListAllergyReports(ctx context.Context, date *time.Time) ([]AllergyReportInfo, error) {
	var (
		reports []*mess.AllergyReport
		err     error
	)
	if date != nil {
		reports, err = s.allergyRepo.FindByDate(ctx, *date)
	} else {
		reports, err = s.allergyRepo.FindAll(ctx)
	}
	if err != nil {
		s.logger.Error("Failed to list allergy reports", zap.Error(err))
		return nil, err
	}

	infos := make([]AllergyReportInfo, 0, len(reports))
	for _, report := range reports {
		infos = append(infos, allergyReportToInfo(report))
	}
	return infos, nil
}

// estimateCost sums cost * servings over costed entries, where servings
// is the head count of the entry's diet group. Returns false when no
// entry carries a cost.
func estimateCost(menu []*mess.MenuEntry, vegCount, nonVegCount int) (decimal.Decimal, bool) {
	total := decimal.Zero
	costed := false

	for _, entry := range menu {
		if entry.Cost == nil {
			continue
		}
		costed = true
		servings := nonVegCount
		if entry.IsVeg() {
			servings = vegCount
		}
		total = total.Add(entry.Cost.Mul(decimal.NewFromInt(int64(servings))))
	}

	return total, costed
}
