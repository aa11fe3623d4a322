package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/payment"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements payment.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByReference retrieves a transaction by its gateway reference
func (r *GormTransactionRepository) FindByReference(ctx context.Context, reference string) (*payment.Transaction, error) {
	var tx payment.Transaction
	err := r.db.WithContext(ctx).First(&tx, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByUser retrieves a user's transactions, newest first
func (r *GormTransactionRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]payment.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&payment.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []payment.Transaction
	if err := applyFilter(query, filter).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// Upsert inserts the transaction or updates the existing row with the same
// gateway reference.
func (r *GormTransactionRepository) Upsert(ctx context.Context, tx *payment.Transaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reference"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "channel", "gateway_response", "authorization_code",
				"customer_email", "raw_payload", "amount", "paid_at", "updated_at",
			}),
		}).
		Create(tx).Error
}

var _ payment.TransactionRepository = (*GormTransactionRepository)(nil)
