package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
)

// Transaction records a payment attempt as reported by the gateway.
// Rows are upserted by gateway reference so replayed verifications update the
// same record instead of inserting duplicates.
type Transaction struct {
	shared.BaseEntity
	Reference         string            `gorm:"size:128;not null;uniqueIndex"`
	OrderID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID            *uuid.UUID        `gorm:"type:uuid;index"`
	Amount            valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Currency          string            `gorm:"size:8;not null;default:'NGN'"`
	Status            string            `gorm:"size:32;not null"`
	Channel           string            `gorm:"size:32"`
	GatewayResponse   string            `gorm:"size:255"`
	AuthorizationCode string            `gorm:"size:128"`
	CustomerEmail     string            `gorm:"size:255"`
	RawPayload        []byte            `gorm:"type:jsonb"`
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	FindByReference(ctx context.Context, reference string) (*Transaction, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Transaction, int64, error)
	// Upsert inserts the transaction or updates the existing row with the
	// same gateway reference.
	Upsert(ctx context.Context, tx *Transaction) error
}
