package persistence

import (
	"context"

	"github.com/sabstore/backend/internal/application/scope"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope using GORM
// transactions. All repositories handed to the callback share the same
// *gorm.DB transaction handle.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new transaction scope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Carts() cart.Repository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Coupons() coupon.Repository {
	return NewGormCouponRepository(r.tx)
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Stock() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transactions() payment.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) SyncLogs() inventory.SyncLogRepository {
	return NewGormSyncLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) SyncTasks() inventory.SyncTaskRepository {
	return NewGormSyncTaskRepository(r.tx)
}

var _ scope.TransactionScope = (*GormTransactionScope)(nil)
var _ scope.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
