package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMenuRepository implements mess.MenuRepository using GORM
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GormMenuRepository
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// Create creates a new menu entry
func (r *GormMenuRepository) Create(ctx context.Context, entry *mess.MenuEntry) error {
	model := models.MenuEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete hard-deletes a menu entry. Allergy reports referencing the entry
// are removed by the foreign key cascade.
func (r *GormMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a menu entry by ID
func (r *GormMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*mess.MenuEntry, error) {
	var model models.MenuEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all menu entries in insertion order
func (r *GormMenuRepository) FindAll(ctx context.Context) ([]*mess.MenuEntry, error) {
	var modelList []models.MenuEntryModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return menuEntriesToDomain(modelList), nil
}

// FindByDay returns all entries whose day equals the given weekday name.
// Matching is exact equality on the stored Title-cased value.
func (r *GormMenuRepository) FindByDay(ctx context.Context, day string) ([]*mess.MenuEntry, error) {
	var modelList []models.MenuEntryModel
	if err := r.db.WithContext(ctx).
		Where("day = ?", day).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return menuEntriesToDomain(modelList), nil
}

// Count returns the total number of menu entries
func (r *GormMenuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MenuEntryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func menuEntriesToDomain(modelList []models.MenuEntryModel) []*mess.MenuEntry {
	entries := make([]*mess.MenuEntry, len(modelList))
	for i := range modelList {
		entries[i] = modelList[i].ToDomain()
	}
	return entries
}

// Ensure GormMenuRepository implements MenuRepository
var _ mess.MenuRepository = (*GormMenuRepository)(nil)
