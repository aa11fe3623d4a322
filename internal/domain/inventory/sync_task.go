package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
)

// SyncTaskStatus is the lifecycle state of a scheduled POS sync task
type SyncTaskStatus string

const (
	SyncTaskStatusScheduled SyncTaskStatus = "scheduled"
	SyncTaskStatusRunning   SyncTaskStatus = "running"
	SyncTaskStatusSucceeded SyncTaskStatus = "succeeded"
	SyncTaskStatusFailed    SyncTaskStatus = "failed"
)

// DefaultMaxAttempts is the number of tries before a task is left failed
const DefaultMaxAttempts = 3

// SyncTask is a persisted unit of work that pushes one stock adjustment to
// the external POS. Tasks are claimed by the dispatcher, executed with a
// bounded timeout and rescheduled with backoff until the attempt budget is
// exhausted.
type SyncTask struct {
	shared.BaseEntity
	OrderID        *uuid.UUID     `gorm:"type:uuid;index"`
	SyncLogID      *uuid.UUID     `gorm:"type:uuid;index"` // pending log row this task reports into
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	EposProductID  string         `gorm:"size:64;not null"`
	Quantity       int            `gorm:"not null"`
	OrderReference string         `gorm:"size:32"`
	PaymentMethod  string         `gorm:"size:16"`
	Status         SyncTaskStatus `gorm:"size:16;not null;default:'scheduled';index"`
	Attempts       int            `gorm:"not null;default:0"`
	MaxAttempts    int            `gorm:"not null;default:3"`
	LastError      string         `gorm:"size:1024"`
	NextRunAt      time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SyncTask) TableName() string {
	return "epos_sync_tasks"
}

// NewSyncTask schedules a POS stock adjustment for immediate dispatch
func NewSyncTask(orderID *uuid.UUID, productID uuid.UUID, eposProductID string, quantity int, orderReference, paymentMethod string) *SyncTask {
	return &SyncTask{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        orderID,
		ProductID:      productID,
		EposProductID:  eposProductID,
		Quantity:       quantity,
		OrderReference: orderReference,
		PaymentMethod:  paymentMethod,
		Status:         SyncTaskStatusScheduled,
		Attempts:       0,
		MaxAttempts:    DefaultMaxAttempts,
		NextRunAt:      time.Now(),
	}
}

// MarkRunning transitions a claimed task to running
func (t *SyncTask) MarkRunning() error {
	if t.Status != SyncTaskStatusScheduled {
		return errors.New("can only run scheduled tasks")
	}
	t.Status = SyncTaskStatusRunning
	t.Attempts++
	t.UpdatedAt = time.Now()
	return nil
}

// MarkSucceeded records a successful dispatch
func (t *SyncTask) MarkSucceeded() {
	t.Status = SyncTaskStatusSucceeded
	t.LastError = ""
	t.UpdatedAt = time.Now()
}

// MarkFailed records a failed attempt. The task is rescheduled at nextRunAt
// unless the attempt budget is exhausted, in which case it stays failed until
// a manual retry schedules a fresh task.
func (t *SyncTask) MarkFailed(errMsg string, nextRunAt time.Time) {
	t.LastError = errMsg
	t.UpdatedAt = time.Now()

	if t.Attempts >= t.MaxAttempts {
		t.Status = SyncTaskStatusFailed
		return
	}
	t.Status = SyncTaskStatusScheduled
	t.NextRunAt = nextRunAt
}

// IsExhausted reports whether the attempt budget is used up
func (t *SyncTask) IsExhausted() bool {
	return t.Attempts >= t.MaxAttempts
}

// SyncTaskRepository defines persistence operations for sync tasks
type SyncTaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SyncTask, error)
	// FindDue retrieves scheduled tasks whose NextRunAt has passed
	FindDue(ctx context.Context, before time.Time, limit int) ([]*SyncTask, error)
	// MarkRunning atomically claims tasks and returns the ones claimed
	MarkRunning(ctx context.Context, ids []uuid.UUID) ([]*SyncTask, error)
	Save(ctx context.Context, task *SyncTask) error
	Update(ctx context.Context, task *SyncTask) error
}
