package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/persistence"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func createStudent(t *testing.T, repo *persistence.GormStudentRepository, name, foodType string) *mess.Student {
	t.Helper()

	student, err := mess.NewStudent(name, "B-204", "", foodType)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), student))
	return student
}

// TestAttendanceRepository_Integration exercises the attendance recorder
// against a real PostgreSQL database, including the unique-constraint
// guarantees the in-memory mocks cannot verify.
func TestAttendanceRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormAttendanceRepository(testDB.DB)
	studentRepo := persistence.NewGormStudentRepository(testDB.DB)
	ctx := context.Background()

	date := time.Date(2026, 8, 31, 8, 30, 0, 0, time.UTC)

	t.Run("first mark inserts and increments the counter", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Asha Verma", "veg")

		inserted, err := repo.MarkPresent(ctx, student.ID, date)
		require.NoError(t, err)
		assert.True(t, inserted)

		found, err := studentRepo.FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.DaysPresent)

		present, err := repo.ExistsForDate(ctx, student.ID, date)
		require.NoError(t, err)
		assert.True(t, present)
	})

	t.Run("repeat mark on the same day is a no-op", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Ravi Kumar", "non-veg")

		inserted, err := repo.MarkPresent(ctx, student.ID, date)
		require.NoError(t, err)
		assert.True(t, inserted)

		// Different wall-clock time, same day
		inserted, err = repo.MarkPresent(ctx, student.ID, date.Add(9*time.Hour))
		require.NoError(t, err)
		assert.False(t, inserted)

		found, err := studentRepo.FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.DaysPresent)
	})

	t.Run("concurrent marks for the same day count exactly once", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Meera Nair", "veg")

		const workers = 16
		results := make(chan bool, workers)
		errs := make(chan error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				inserted, err := repo.MarkPresent(ctx, student.ID, date)
				if err != nil {
					errs <- err
					return
				}
				results <- inserted
			}()
		}
		wg.Wait()
		close(results)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		insertedCount := 0
		for inserted := range results {
			if inserted {
				insertedCount++
			}
		}
		assert.Equal(t, 1, insertedCount, "exactly one mark should win the race")

		found, err := studentRepo.FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.DaysPresent, "counter must not double-count under contention")

		records, err := repo.FindByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("marks on different days accumulate", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Divya Pillai", "veg")

		for i := 0; i < 3; i++ {
			inserted, err := repo.MarkPresent(ctx, student.ID, date.AddDate(0, 0, i))
			require.NoError(t, err)
			assert.True(t, inserted)
		}

		found, err := studentRepo.FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, found.DaysPresent)
	})

	t.Run("unknown student is rejected", func(t *testing.T) {
		inserted, err := repo.MarkPresent(ctx, uuid.New(), date)

		assert.False(t, inserted)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("soft-deleted student is rejected", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Gone Student", "veg")
		require.NoError(t, studentRepo.Delete(ctx, student.ID))

		inserted, err := repo.MarkPresent(ctx, student.ID, date)

		assert.False(t, inserted)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("CountByDate ignores the time of day", func(t *testing.T) {
		countDate := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

		a := createStudent(t, studentRepo, "Counter A", "veg")
		b := createStudent(t, studentRepo, "Counter B", "non-veg")

		_, err := repo.MarkPresent(ctx, a.ID, countDate.Add(7*time.Hour))
		require.NoError(t, err)
		_, err = repo.MarkPresent(ctx, b.ID, countDate.Add(20*time.Hour))
		require.NoError(t, err)

		count, err := repo.CountByDate(ctx, countDate)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("RecountDaysPresent repairs a drifted counter", func(t *testing.T) {
		student := createStudent(t, studentRepo, "Drifted Student", "veg")

		_, err := repo.MarkPresent(ctx, student.ID, date)
		require.NoError(t, err)
		_, err = repo.MarkPresent(ctx, student.ID, date.AddDate(0, 0, 1))
		require.NoError(t, err)

		// Sabotage the counter directly
		err = testDB.DB.Exec(`UPDATE students SET days_present = 99 WHERE id = ?`, student.ID).Error
		require.NoError(t, err)

		require.NoError(t, repo.RecountDaysPresent(ctx))

		found, err := studentRepo.FindByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.DaysPresent)
	})
}
