package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSyncTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.SyncTask{})
	require.NoError(t, err)

	return db
}

func seedSyncTask(t *testing.T, db *gorm.DB, nextRunAt time.Time) *inventory.SyncTask {
	t.Helper()
	orderID := uuid.New()
	task := inventory.NewSyncTask(&orderID, uuid.New(), "44721", 3, "SAB-A1B2C3D4E5", "online")
	task.NextRunAt = nextRunAt
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestGormSyncTaskRepository_FindDue(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)
	ctx := context.Background()

	now := time.Now()
	due := seedSyncTask(t, db, now.Add(-time.Minute))
	seedSyncTask(t, db, now.Add(time.Hour))

	succeeded := seedSyncTask(t, db, now.Add(-time.Hour))
	require.NoError(t, db.Model(succeeded).Update("status", inventory.SyncTaskStatusSucceeded).Error)

	tasks, err := repo.FindDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, due.ID, tasks[0].ID)
}

func TestGormSyncTaskRepository_FindDue_HonorsLimit(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 5; i++ {
		seedSyncTask(t, db, now.Add(-time.Duration(i+1)*time.Minute))
	}

	tasks, err := repo.FindDue(ctx, now, 3)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestGormSyncTaskRepository_MarkRunning_ClaimsOnlyScheduled(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)
	ctx := context.Background()

	now := time.Now()
	scheduled := seedSyncTask(t, db, now.Add(-time.Minute))

	taken := seedSyncTask(t, db, now.Add(-time.Minute))
	require.NoError(t, db.Model(taken).Update("status", inventory.SyncTaskStatusRunning).Error)

	claimed, err := repo.MarkRunning(ctx, []uuid.UUID{scheduled.ID, taken.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, scheduled.ID, claimed[0].ID)
	assert.Equal(t, inventory.SyncTaskStatusRunning, claimed[0].Status)
	assert.Equal(t, 1, claimed[0].Attempts)
}

func TestGormSyncTaskRepository_MarkRunning_EmptyInput(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)

	claimed, err := repo.MarkRunning(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestGormSyncTaskRepository_UpdatePersistsReschedule(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)
	ctx := context.Background()

	task := seedSyncTask(t, db, time.Now().Add(-time.Minute))
	require.NoError(t, task.MarkRunning())
	task.MarkFailed("connection refused", time.Now().Add(30*time.Second))
	require.NoError(t, repo.Update(ctx, task))

	reloaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.SyncTaskStatusScheduled, reloaded.Status)
	assert.Equal(t, 1, reloaded.Attempts)
	assert.Equal(t, "connection refused", reloaded.LastError)
}

func TestGormSyncTaskRepository_FindByID_Unknown(t *testing.T) {
	db := setupSyncTaskTestDB(t)
	repo := NewGormSyncTaskRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
