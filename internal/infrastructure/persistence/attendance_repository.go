package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository implements mess.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// MarkPresent records the student present for the date and bumps the
// days-present counter, all in one transaction. The insert rides on the
// (student_id, date) unique constraint with ON CONFLICT DO NOTHING, so
// concurrent marks for the same pair race safely: exactly one inserts
// and increments, the rest observe a no-op and return false. Unknown
// and soft-deleted students yield shared.ErrNotFound.
func (r *GormAttendanceRepository) MarkPresent(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	attendance, err := mess.NewAttendance(studentID, date)
	if err != nil {
		return false, err
	}

	inserted := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var known int64
		if err := tx.Model(&models.StudentModel{}).
			Where("id = ?", studentID).
			Count(&known).Error; err != nil {
			return err
		}
		if known == 0 {
			return shared.ErrNotFound
		}

		model := &models.AttendanceModel{}
		model.FromDomain(attendance)

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already marked for this date
			return nil
		}

		update := tx.Model(&models.StudentModel{}).
			Where("id = ?", studentID).
			UpdateColumn("days_present", gorm.Expr("days_present + 1"))
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// ExistsForDate reports whether the student is marked for the date
func (r *GormAttendanceRepository) ExistsForDate(ctx context.Context, studentID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AttendanceModel{}).
		Where("student_id = ? AND date = ?", studentID, mess.DateOnly(date)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByDate returns all attendance records for the date
func (r *GormAttendanceRepository) FindByDate(ctx context.Context, date time.Time) ([]*mess.Attendance, error) {
	var modelList []models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Where("date = ?", mess.DateOnly(date)).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return attendancesToDomain(modelList), nil
}

// FindByStudent returns all attendance records for a student
func (r *GormAttendanceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*mess.Attendance, error) {
	var modelList []models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return attendancesToDomain(modelList), nil
}

// CountByDate returns the number of students marked for the date
func (r *GormAttendanceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AttendanceModel{}).
		Where("date = ?", mess.DateOnly(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RecountDaysPresent recomputes every student's days-present counter from
// their attendance rows. Run periodically to repair any drift.
func (r *GormAttendanceRepository) RecountDaysPresent(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentModel{}).
		Where("1 = 1").
		UpdateColumn("days_present", gorm.Expr(
			"(SELECT COUNT(*) FROM attendances WHERE attendances.student_id = students.id)",
		)).Error
}

func attendancesToDomain(modelList []models.AttendanceModel) []*mess.Attendance {
	records := make([]*mess.Attendance, len(modelList))
	for i := range modelList {
		records[i] = modelList[i].ToDomain()
	}
	return records
}

// Ensure GormAttendanceRepository implements AttendanceRepository
var _ mess.AttendanceRepository = (*GormAttendanceRepository)(nil)
