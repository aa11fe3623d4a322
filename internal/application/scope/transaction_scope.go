package scope

import (
	"context"

	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/payment"
)

// TransactionScope provides transactional access to the storefront
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to the
// current transaction. Checkout spans carts, orders and coupons; payment
// confirmation spans orders, transactions, stock, sync logs and sync tasks.
type TransactionalRepositories interface {
	Carts() cart.Repository
	Orders() order.Repository
	Coupons() coupon.Repository
	Products() catalog.ProductRepository
	Stock() inventory.StockRepository
	Transactions() payment.TransactionRepository
	SyncLogs() inventory.SyncLogRepository
	SyncTasks() inventory.SyncTaskRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests where repositories are mocked.
type NoOpTransactionScope struct {
	CartRepo        cart.Repository
	OrderRepo       order.Repository
	CouponRepo      coupon.Repository
	ProductRepo     catalog.ProductRepository
	StockRepo       inventory.StockRepository
	TransactionRepo payment.TransactionRepository
	SyncLogRepo     inventory.SyncLogRepository
	SyncTaskRepo    inventory.SyncTaskRepository
}

// Execute runs the function against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() cart.Repository { return s.CartRepo }

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.Repository { return s.OrderRepo }

// Coupons returns the coupon repository
func (s *NoOpTransactionScope) Coupons() coupon.Repository { return s.CouponRepo }

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.ProductRepo }

// Stock returns the stock repository
func (s *NoOpTransactionScope) Stock() inventory.StockRepository { return s.StockRepo }

// Transactions returns the payment transaction repository
func (s *NoOpTransactionScope) Transactions() payment.TransactionRepository {
	return s.TransactionRepo
}

// SyncLogs returns the sync log repository
func (s *NoOpTransactionScope) SyncLogs() inventory.SyncLogRepository { return s.SyncLogRepo }

// SyncTasks returns the sync task repository
func (s *NoOpTransactionScope) SyncTasks() inventory.SyncTaskRepository { return s.SyncTaskRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
