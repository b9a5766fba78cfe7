package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormStudentRepository_FindByID(t *testing.T) {
	t.Run("finds existing student", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		studentID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "room", "allergies", "food_type", "days_present"}).
			AddRow(studentID, "Ravi Kumar", "A-101", "peanuts", "veg", 3)

		mock.ExpectQuery(`SELECT \* FROM "students" WHERE id = \$1 AND "students"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(studentID, 1).
			WillReturnRows(rows)

		student, err := repo.FindByID(context.Background(), studentID)

		require.NoError(t, err)
		assert.Equal(t, studentID, student.ID)
		assert.Equal(t, "Ravi Kumar", student.Name)
		assert.Equal(t, 3, student.DaysPresent)
		assert.True(t, student.IsVeg())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing student", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		studentID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "students" WHERE id = \$1 AND "students"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(studentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		student, err := repo.FindByID(context.Background(), studentID)

		assert.Nil(t, student)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStudentRepository_FindByUsername(t *testing.T) {
	t.Run("empty username short-circuits to not found", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		student, err := repo.FindByUsername(context.Background(), "   ")

		assert.Nil(t, student)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("username lookup is lowercased", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		studentID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(studentID, "Ravi Kumar", "ravi", "$2a$12$hash")

		mock.ExpectQuery(`SELECT \* FROM "students" WHERE username = \$1 AND "students"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs("ravi", 1).
			WillReturnRows(rows)

		student, err := repo.FindByUsername(context.Background(), "  Ravi  ")

		require.NoError(t, err)
		assert.Equal(t, "ravi", student.Username)
		assert.True(t, student.CanLogin())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStudentRepository_Delete(t *testing.T) {
	t.Run("removes dependents then soft-deletes the student", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		studentID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "attendances" WHERE student_id = \$1`).
			WithArgs(studentID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "allergy_reports" WHERE student_id = \$1`).
			WithArgs(studentID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "students" SET "deleted_at"=\$1 WHERE id = \$2 AND "students"\."deleted_at" IS NULL`).
			WithArgs(sqlmock.AnyArg(), studentID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), studentID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row is deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		studentID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "attendances" WHERE student_id = \$1`).
			WithArgs(studentID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "allergy_reports" WHERE student_id = \$1`).
			WithArgs(studentID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "students" SET "deleted_at"=\$1 WHERE id = \$2 AND "students"\."deleted_at" IS NULL`).
			WithArgs(sqlmock.AnyArg(), studentID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), studentID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStudentRepository_FindPresentOn(t *testing.T) {
	t.Run("joins attendance for the date", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStudentRepository(db)

		date := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "name", "food_type"}).
			AddRow(uuid.New(), "Ravi Kumar", "veg").
			AddRow(uuid.New(), "Meera Shah", "nonveg")

		mock.ExpectQuery(`SELECT .* FROM "students" JOIN attendances ON attendances\.student_id = students\.id WHERE attendances\.date = \$1 .*`).
			WithArgs(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)).
			WillReturnRows(rows)

		students, err := repo.FindPresentOn(context.Background(), date)

		require.NoError(t, err)
		assert.Len(t, students, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
