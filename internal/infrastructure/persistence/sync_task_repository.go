package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSyncTaskRepository implements inventory.SyncTaskRepository using GORM
type GormSyncTaskRepository struct {
	db *gorm.DB
}

// NewGormSyncTaskRepository creates a new sync task repository
func NewGormSyncTaskRepository(db *gorm.DB) *GormSyncTaskRepository {
	return &GormSyncTaskRepository{db: db}
}

// FindByID retrieves a sync task by ID
func (r *GormSyncTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.SyncTask, error) {
	var task inventory.SyncTask
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindDue retrieves scheduled tasks whose NextRunAt has passed
func (r *GormSyncTaskRepository) FindDue(ctx context.Context, before time.Time, limit int) ([]*inventory.SyncTask, error) {
	var tasks []*inventory.SyncTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_run_at <= ?", inventory.SyncTaskStatusScheduled, before).
		Order("next_run_at asc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkRunning atomically claims the given tasks. Only tasks still scheduled
// are claimed; tasks grabbed by a concurrent dispatcher are skipped.
func (r *GormSyncTaskRepository) MarkRunning(ctx context.Context, ids []uuid.UUID) ([]*inventory.SyncTask, error) {
	if len(ids) == 0 {
		return []*inventory.SyncTask{}, nil
	}

	now := time.Now()
	var claimed []*inventory.SyncTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&inventory.SyncTask{}).
			Where("id IN ? AND status = ?", ids, inventory.SyncTaskStatusScheduled).
			Updates(map[string]any{
				"status":     inventory.SyncTaskStatusRunning,
				"attempts":   gorm.Expr("attempts + 1"),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		return tx.
			Where("id IN ? AND status = ? AND updated_at = ?", ids, inventory.SyncTaskStatusRunning, now).
			Find(&claimed).Error
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Save creates a new sync task
func (r *GormSyncTaskRepository) Save(ctx context.Context, task *inventory.SyncTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update persists changes to an existing sync task
func (r *GormSyncTaskRepository) Update(ctx context.Context, task *inventory.SyncTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

var _ inventory.SyncTaskRepository = (*GormSyncTaskRepository)(nil)
