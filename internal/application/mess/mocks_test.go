package mess

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockStudentRepository is a mock implementation of mess.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *mess.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Update(ctx context.Context, student *mess.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*mess.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mess.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByUsername(ctx context.Context, username string) (*mess.Student, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mess.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context) ([]*mess.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.Student), args.Error(1)
}

func (m *MockStudentRepository) FindPresentOn(ctx context.Context, date time.Time) ([]*mess.Student, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.Student), args.Error(1)
}

func (m *MockStudentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMenuRepository is a mock implementation of mess.MenuRepository
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Create(ctx context.Context, entry *mess.MenuEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*mess.MenuEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mess.MenuEntry), args.Error(1)
}

func (m *MockMenuRepository) FindAll(ctx context.Context) ([]*mess.MenuEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.MenuEntry), args.Error(1)
}

func (m *MockMenuRepository) FindByDay(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.MenuEntry), args.Error(1)
}

func (m *MockMenuRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttendanceRepository is a mock implementation of mess.AttendanceRepository
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) MarkPresent(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, studentID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) ExistsForDate(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, studentID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) FindByDate(ctx context.Context, date time.Time) ([]*mess.Attendance, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*mess.Attendance, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttendanceRepository) RecountDaysPresent(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAllergyReportRepository is a mock implementation of mess.AllergyReportRepository
type MockAllergyReportRepository struct {
	mock.Mock
}

func (m *MockAllergyReportRepository) Create(ctx context.Context, report *mess.AllergyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockAllergyReportRepository) FindAll(ctx context.Context) ([]*mess.AllergyReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.AllergyReport), args.Error(1)
}

func (m *MockAllergyReportRepository) FindByDate(ctx context.Context, date time.Time) ([]*mess.AllergyReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.AllergyReport), args.Error(1)
}

// MockMenuCache is a mock implementation of mess.MenuCache
type MockMenuCache struct {
	mock.Mock
}

func (m *MockMenuCache) Get(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mess.MenuEntry), args.Error(1)
}

func (m *MockMenuCache) Set(ctx context.Context, day string, entries []*mess.MenuEntry, ttl time.Duration) error {
	args := m.Called(ctx, day, entries, ttl)
	return args.Error(0)
}

func (m *MockMenuCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMenuCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
