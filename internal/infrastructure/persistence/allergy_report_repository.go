package persistence

import (
	"context"
	"time"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAllergyReportRepository implements mess.AllergyReportRepository using GORM
type GormAllergyReportRepository struct {
	db *gorm.DB
}

// NewGormAllergyReportRepository creates a new GormAllergyReportRepository
func NewGormAllergyReportRepository(db *gorm.DB) *GormAllergyReportRepository {
	return &GormAllergyReportRepository{db: db}
}

// Create creates a new allergy report
func (r *GormAllergyReportRepository) Create(ctx context.Context, report *mess.AllergyReport) error {
	model := &models.AllergyReportModel{}
	model.FromDomain(report)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll returns all reports, newest first
func (r *GormAllergyReportRepository) FindAll(ctx context.Context) ([]*mess.AllergyReport, error) {
	var modelList []models.AllergyReportModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return allergyReportsToDomain(modelList), nil
}

// FindByDate returns reports filed on the given date
func (r *GormAllergyReportRepository) FindByDate(ctx context.Context, date time.Time) ([]*mess.AllergyReport, error) {
	var modelList []models.AllergyReportModel
	if err := r.db.WithContext(ctx).
		Where("date = ?", mess.DateOnly(date)).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return allergyReportsToDomain(modelList), nil
}

func allergyReportsToDomain(modelList []models.AllergyReportModel) []*mess.AllergyReport {
	reports := make([]*mess.AllergyReport, len(modelList))
	for i := range modelList {
		reports[i] = modelList[i].ToDomain()
	}
	return reports
}

// Ensure GormAllergyReportRepository implements AllergyReportRepository
var _ mess.AllergyReportRepository = (*GormAllergyReportRepository)(nil)
