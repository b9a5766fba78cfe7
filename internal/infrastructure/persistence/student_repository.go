package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStudentRepository implements mess.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// Create creates a new student
func (r *GormStudentRepository) Create(ctx context.Context, student *mess.Student) error {
	model := models.StudentModelFromDomain(student)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing student
func (r *GormStudentRepository) Update(ctx context.Context, student *mess.Student) error {
	model := models.StudentModelFromDomain(student)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a student and removes their attendance and allergy
// report rows. Students keep their row for audit; the dependent rows are
// purged eagerly because the soft delete never triggers the database
// cascade.
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.AttendanceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.AllergyReportModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.StudentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a student by ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*mess.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a student by login username. Students without
// credentials have an empty username and are never matched.
func (r *GormStudentRepository) FindByUsername(ctx context.Context, username string) (*mess.Student, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.ErrNotFound
	}

	var model models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all students in insertion order
func (r *GormStudentRepository) FindAll(ctx context.Context) ([]*mess.Student, error) {
	var modelList []models.StudentModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	students := make([]*mess.Student, len(modelList))
	for i := range modelList {
		students[i] = modelList[i].ToDomain()
	}
	return students, nil
}

// FindPresentOn returns students with an attendance record on the given date
func (r *GormStudentRepository) FindPresentOn(ctx context.Context, date time.Time) ([]*mess.Student, error) {
	var modelList []models.StudentModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN attendances ON attendances.student_id = students.id").
		Where("attendances.date = ?", mess.DateOnly(date)).
		Order("students.created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	students := make([]*mess.Student, len(modelList))
	for i := range modelList {
		students[i] = modelList[i].ToDomain()
	}
	return students, nil
}

// Count returns the total number of students
func (r *GormStudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StudentModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStudentRepository implements StudentRepository
var _ mess.StudentRepository = (*GormStudentRepository)(nil)
