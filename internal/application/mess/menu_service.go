package mess

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Day lookups dominate reads, so they are cached; any menu write drops
// the whole cache rather than tracking which days changed.
const menuCacheTTL = 10 * time.Minute

// MenuService manages the weekly menu and serves the per-student daily
// view of it
type MenuService struct {
	menuRepo       mess.MenuRepository
	studentRepo    mess.StudentRepository
	cache          mess.MenuCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMenuService creates a new menu service. The cache is optional;
// a nil cache means every day lookup hits the repository.
func NewMenuService(
	menuRepo mess.MenuRepository,
	studentRepo mess.StudentRepository,
	cache mess.MenuCache,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *MenuService {
	return &MenuService{
		menuRepo:       menuRepo,
		studentRepo:    studentRepo,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateEntry adds a menu entry. Duplicate (day, meal, item) tuples are
// allowed.
func (s *MenuService) CreateEntry(ctx context.Context, input CreateMenuEntryInput) (*MenuEntryInfo, error) {
	entry, err := mess.NewMenuEntry(input.Day, input.Meal, input.Item, input.FoodType)
	if err != nil {
		return nil, err
	}

	if input.Cost != "" {
		cost, err := decimal.NewFromString(input.Cost)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COST", "Cost must be a decimal number")
		}
		if err := entry.SetCost(cost); err != nil {
			return nil, err
		}
	}

	if err := s.menuRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create menu entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create menu entry")
	}

	s.invalidateCache(ctx)
	s.publishEvents(ctx, entry)

	s.logger.Info("Menu entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("day", entry.Day),
		zap.String("item", entry.Item))

	info := menuEntryToInfo(entry)
	return &info, nil
}

// DeleteEntry permanently removes a menu entry. Allergy reports filed
// against it are removed in cascade by the store.
func (s *MenuService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete menu entry",
			zap.String("entry_id", id.String()),
			zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, mess.NewMenuEntryDeletedEvent(entry)); err != nil {
			s.logger.Warn("Failed to publish menu entry deleted event", zap.Error(err))
		}
	}

	s.logger.Info("Menu entry deleted",
		zap.String("entry_id", id.String()),
		zap.String("item", entry.Item))

	return nil
}

// GetEntry returns one menu entry by ID
func (s *MenuService) GetEntry(ctx context.Context, id uuid.UUID) (*MenuEntryInfo, error) {
	entry, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := menuEntryToInfo(entry)
	return &info, nil
}

// ListEntries returns the whole menu in insertion order
func (s *MenuService) ListEntries(ctx context.Context) ([]MenuEntryInfo, error) {
	entries, err := s.menuRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list menu entries", zap.Error(err))
		return nil, err
	}
	return menuEntriesToInfo(entries), nil
}

// ListByDay returns the entries for one weekday. The label is
// case-insensitive.
func (s *MenuService) ListByDay(ctx context.Context, day string) ([]MenuEntryInfo, error) {
	entries, err := s.entriesForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return menuEntriesToInfo(entries), nil
}

// MenuForStudent returns the menu a student sees for a date: every
// entry for the date's weekday. Entries whose item contains the
// student's allergy string are flagged, not hidden.
func (s *MenuService) MenuForStudent(ctx context.Context, studentID uuid.UUID, date time.Time) (*StudentMenuResult, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, shared.ErrSessionInvalid
	}

	day := mess.WeekdayName(date)
	entries, err := s.entriesForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	result := &StudentMenuResult{
		Date:    mess.DateOnly(date),
		Day:     day,
		Entries: make([]StudentMenuEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		result.Entries = append(result.Entries, StudentMenuEntry{
			MenuEntryInfo:   menuEntryToInfo(entry),
			AllergyConflict: entry.ConflictsWith(student.Allergies),
		})
	}

	return result, nil
}

// entriesForDay is the cache-aside read path. Cache failures degrade to
// repository reads; they never fail the request.
func (s *MenuService) entriesForDay(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	day = mess.NormalizeDayLabel(day)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, day)
		if err != nil {
			s.logger.Warn("Menu cache read failed", zap.String("day", day), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	entries, err := s.menuRepo.FindByDay(ctx, day)
	if err != nil {
		s.logger.Error("Failed to load menu for day", zap.String("day", day), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, day, entries, menuCacheTTL); err != nil {
			s.logger.Warn("Menu cache write failed", zap.String("day", day), zap.Error(err))
		}
	}

	return entries, nil
}

func (s *MenuService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Menu cache invalidation failed", zap.Error(err))
	}
}

func (s *MenuService) publishEvents(ctx context.Context, entry *mess.MenuEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish menu events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}
