package mess

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newReportService() (*ReportService, *MockStudentRepository, *MockMenuRepository, *MockAttendanceRepository, *MockAllergyReportRepository, *MockEventPublisher) {
	studentRepo := new(MockStudentRepository)
	menuRepo := new(MockMenuRepository)
	attendanceRepo := new(MockAttendanceRepository)
	allergyRepo := new(MockAllergyReportRepository)
	publisher := new(MockEventPublisher)
	service := NewReportService(studentRepo, menuRepo, attendanceRepo, allergyRepo, publisher, zap.NewNop())
	return service, studentRepo, menuRepo, attendanceRepo, allergyRepo, publisher
}

func TestReportService_FoodCount(t *testing.T) {
	ctx := context.Background()
	// 2026-08-31 is a Monday
	date := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	day := mess.DateOnly(date)

	t.Run("splits present students by diet and flags conflicts", func(t *testing.T) {
		service, studentRepo, menuRepo, _, _, _ := newReportService()

		vegStudent := newRosterStudent(t, "Asha Verma") // veg, allergic to peanut
		nonVeg := newRosterStudent(t, "Ravi Kumar")
		require.NoError(t, nonVeg.UpdateProfile("Ravi Kumar", "A-102", "", "non-veg"))

		menu := []*mess.MenuEntry{
			newEntry(t, "Monday", "Lunch", "Peanut Curry", "veg"),
			newEntry(t, "Monday", "Dinner", "Chicken Curry", "non-veg"),
		}

		studentRepo.On("FindPresentOn", ctx, day).Return([]*mess.Student{vegStudent, nonVeg}, nil)
		menuRepo.On("FindByDay", ctx, "Monday").Return(menu, nil)

		result, err := service.FoodCount(ctx, date)

		require.NoError(t, err)
		assert.Equal(t, "Monday", result.Day)
		assert.Equal(t, 2, result.TotalPresent)
		assert.Equal(t, 1, result.VegCount)
		assert.Equal(t, 1, result.NonVegCount)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, vegStudent.ID, result.Conflicts[0].StudentID)
		assert.Equal(t, "Peanut Curry", result.Conflicts[0].Item)
		assert.Nil(t, result.EstimatedCost)
	})

	t.Run("estimates cost per diet group", func(t *testing.T) {
		service, studentRepo, menuRepo, _, _, _ := newReportService()

		vegOne := newRosterStudent(t, "Veg One")
		vegTwo := newRosterStudent(t, "Veg Two")
		nonVeg := newRosterStudent(t, "Ravi Kumar")
		require.NoError(t, nonVeg.UpdateProfile("Ravi Kumar", "A-102", "", "non-veg"))

		vegDish := newEntry(t, "Monday", "Lunch", "Dal Tadka", "veg")
		require.NoError(t, vegDish.SetCost(decimalFromString(t, "30")))
		nonVegDish := newEntry(t, "Monday", "Lunch", "Chicken Curry", "non-veg")
		require.NoError(t, nonVegDish.SetCost(decimalFromString(t, "55.50")))

		studentRepo.On("FindPresentOn", ctx, day).Return([]*mess.Student{vegOne, vegTwo, nonVeg}, nil)
		menuRepo.On("FindByDay", ctx, "Monday").Return([]*mess.MenuEntry{vegDish, nonVegDish}, nil)

		result, err := service.FoodCount(ctx, date)

		require.NoError(t, err)
		// 2 veg servings at 30 plus 1 non-veg at 55.50
		require.NotNil(t, result.EstimatedCost)
		assert.Equal(t, "115.50", *result.EstimatedCost)
	})

	t.Run("empty day yields an empty report", func(t *testing.T) {
		service, studentRepo, menuRepo, _, _, _ := newReportService()

		studentRepo.On("FindPresentOn", ctx, day).Return([]*mess.Student{}, nil)
		menuRepo.On("FindByDay", ctx, "Monday").Return([]*mess.MenuEntry{}, nil)

		result, err := service.FoodCount(ctx, date)

		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalPresent)
		assert.Empty(t, result.Conflicts)
		assert.Nil(t, result.EstimatedCost)
	})
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	service, studentRepo, menuRepo, attendanceRepo, _, _ := newReportService()

	studentRepo.On("Count", ctx).Return(int64(42), nil)
	menuRepo.On("Count", ctx).Return(int64(21), nil)
	attendanceRepo.On("CountByDate", ctx, mock.AnythingOfType("time.Time")).Return(int64(17), nil)

	result, err := service.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.TotalStudents)
	assert.Equal(t, int64(21), result.TotalMenuEntries)
	assert.Equal(t, int64(17), result.PresentToday)
}

func TestReportService_FileAllergyReport(t *testing.T) {
	ctx := context.Background()

	t.Run("files a report against an existing entry", func(t *testing.T) {
		service, studentRepo, menuRepo, _, allergyRepo, publisher := newReportService()

		student := newRosterStudent(t, "Asha Verma")
		entry := newEntry(t, "Monday", "Lunch", "Peanut Curry", "veg")
		studentRepo.On("FindByID", ctx, student.ID).Return(student, nil)
		menuRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		allergyRepo.On("Create", ctx, mock.AnythingOfType("*mess.AllergyReport")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			event, ok := events[0].(*mess.AllergyReportFiledEvent)
			return ok && event.StudentID == student.ID && event.MenuEntryID == entry.ID
		})).Return(nil).Once()

		info, err := service.FileAllergyReport(ctx, FileAllergyReportInput{
			StudentID:   student.ID,
			MenuEntryID: entry.ID,
			Note:        "contains peanuts",
		})

		require.NoError(t, err)
		assert.Equal(t, student.ID, info.StudentID)
		assert.Equal(t, entry.ID, info.MenuEntryID)
		assert.Equal(t, "contains peanuts", info.Note)
		allergyRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("missing student invalidates the session", func(t *testing.T) {
		service, studentRepo, _, _, allergyRepo, publisher := newReportService()

		id := uuid.New()
		studentRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.FileAllergyReport(ctx, FileAllergyReportInput{
			StudentID:   id,
			MenuEntryID: uuid.New(),
		})

		assert.Equal(t, shared.ErrSessionInvalid, err)
		allergyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("missing menu entry is not found", func(t *testing.T) {
		service, studentRepo, menuRepo, _, _, _ := newReportService()

		student := newRosterStudent(t, "Asha Verma")
		entryID := uuid.New()
		studentRepo.On("FindByID", ctx, student.ID).Return(student, nil)
		menuRepo.On("FindByID", ctx, entryID).Return(nil, shared.ErrNotFound)

		_, err := service.FileAllergyReport(ctx, FileAllergyReportInput{
			StudentID:   student.ID,
			MenuEntryID: entryID,
		})

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestReportService_ListAllergyReports(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every report", func(t *testing.T) {
		service, _, _, _, allergyRepo, _ := newReportService()

		report, err := mess.NewAllergyReport(uuid.New(), uuid.New(), "itchy", time.Now())
		require.NoError(t, err)
		allergyRepo.On("FindAll", ctx).Return([]*mess.AllergyReport{report}, nil)

		infos, err := service.ListAllergyReports(ctx, nil)

		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "itchy", infos[0].Note)
	})

	t.Run("filters by date when given one", func(t *testing.T) {
		service, _, _, _, allergyRepo, _ := newReportService()

		date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		allergyRepo.On("FindByDate", ctx, date).Return([]*mess.AllergyReport{}, nil)

		infos, err := service.ListAllergyReports(ctx, &date)

		require.NoError(t, err)
		assert.Empty(t, infos)
		allergyRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	})
}
