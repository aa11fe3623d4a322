package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
)

// SyncType classifies the origin of a stock movement recorded in the log
type SyncType string

const (
	SyncTypeSale        SyncType = "sale"         // online sale pushed to the POS
	SyncTypeStockUpdate SyncType = "stock_update" // manual adjustment pushed to the POS
	SyncTypePosSale     SyncType = "pos_sale"     // in-store sale received from the POS
)

// SyncLogStatus is the outcome recorded for a sync attempt
type SyncLogStatus string

const (
	SyncLogStatusPending SyncLogStatus = "pending"
	SyncLogStatusSuccess SyncLogStatus = "success"
	SyncLogStatusFailed  SyncLogStatus = "failed"
)

// SyncLogEntry is an append-only audit record of one stock synchronization
// attempt for one product. Retries create new rows; existing rows are only
// ever updated from pending to a terminal status by the attempt they track.
type SyncLogEntry struct {
	shared.BaseEntity
	OrderID       *uuid.UUID    `gorm:"type:uuid;index"`
	ProductID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	SyncType      SyncType      `gorm:"size:32;not null"`
	Status        SyncLogStatus `gorm:"size:16;not null;default:'pending';index"`
	Quantity      int           `gorm:"not null"`
	OldStock      int           `gorm:"not null"`
	NewStock      *int
	Response      []byte  `gorm:"type:jsonb"`
	ErrorMessage  string  `gorm:"size:1024"`
	PaymentMethod string  `gorm:"size:16"` // online or pos
	SyncedAt      *time.Time
}

// TableName returns the table name for GORM
func (SyncLogEntry) TableName() string {
	return "eposnow_sync_logs"
}

// MarkSuccess records a successful sync with the resulting stock level
func (l *SyncLogEntry) MarkSuccess(newStock int, response []byte) {
	now := time.Now()
	l.Status = SyncLogStatusSuccess
	l.NewStock = &newStock
	l.Response = response
	l.ErrorMessage = ""
	l.SyncedAt = &now
	l.UpdatedAt = now
}

// MarkFailed records a failed sync attempt
func (l *SyncLogEntry) MarkFailed(errMsg string, response []byte) {
	now := time.Now()
	l.Status = SyncLogStatusFailed
	l.ErrorMessage = errMsg
	l.Response = response
	l.SyncedAt = &now
	l.UpdatedAt = now
}

// FailedAttempt returns a fresh failed log row for the same movement. The
// receiving row stays untouched so the trail keeps one row per attempt.
func (l *SyncLogEntry) FailedAttempt(errMsg string, response []byte) *SyncLogEntry {
	now := time.Now()
	return &SyncLogEntry{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       l.OrderID,
		ProductID:     l.ProductID,
		SyncType:      l.SyncType,
		Status:        SyncLogStatusFailed,
		Quantity:      l.Quantity,
		OldStock:      l.OldStock,
		Response:      response,
		ErrorMessage:  errMsg,
		PaymentMethod: l.PaymentMethod,
		SyncedAt:      &now,
	}
}

// IsRetryable reports whether a manual retry may be issued for this entry
func (l *SyncLogEntry) IsRetryable() bool {
	return l.Status == SyncLogStatusFailed
}

// SyncLogRepository defines persistence operations for sync log entries
type SyncLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SyncLogEntry, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]SyncLogEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SyncLogEntry, int64, error)
	Save(ctx context.Context, entry *SyncLogEntry) error
}
