package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTask_Lifecycle(t *testing.T) {
	orderID := uuid.New()
	task := NewSyncTask(&orderID, uuid.New(), "44721", 3, "SAB-ABC1234567", "online")

	assert.Equal(t, SyncTaskStatusScheduled, task.Status)
	assert.Equal(t, 0, task.Attempts)
	assert.Equal(t, DefaultMaxAttempts, task.MaxAttempts)

	require.NoError(t, task.MarkRunning())
	assert.Equal(t, SyncTaskStatusRunning, task.Status)
	assert.Equal(t, 1, task.Attempts)

	task.MarkSucceeded()
	assert.Equal(t, SyncTaskStatusSucceeded, task.Status)
	assert.Empty(t, task.LastError)
}

func TestSyncTask_MarkRunningRequiresScheduled(t *testing.T) {
	task := NewSyncTask(nil, uuid.New(), "44721", 1, "", "pos")
	require.NoError(t, task.MarkRunning())

	err := task.MarkRunning()
	assert.Error(t, err)
}

func TestSyncTask_FailureReschedulesUntilExhausted(t *testing.T) {
	task := NewSyncTask(nil, uuid.New(), "44721", 2, "SAB-XYZ7654321", "online")

	for attempt := 1; attempt < DefaultMaxAttempts; attempt++ {
		require.NoError(t, task.MarkRunning())
		next := time.Now().Add(15 * time.Second)
		task.MarkFailed("connection refused", next)

		assert.Equal(t, SyncTaskStatusScheduled, task.Status)
		assert.Equal(t, attempt, task.Attempts)
		assert.WithinDuration(t, next, task.NextRunAt, time.Second)
	}

	require.NoError(t, task.MarkRunning())
	task.MarkFailed("connection refused", time.Now().Add(time.Minute))

	assert.Equal(t, SyncTaskStatusFailed, task.Status)
	assert.True(t, task.IsExhausted())
	assert.Equal(t, "connection refused", task.LastError)
}
