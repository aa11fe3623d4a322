package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogService exposes the sync audit trail and manual retries.
// The log is append-only: a retry never rewrites the failed row, it creates a
// fresh pending row and a fresh task that reports into it.
type LogService struct {
	syncLogs  inventory.SyncLogRepository
	syncTasks inventory.SyncTaskRepository
	products  catalog.ProductRepository
	orders    order.Repository
	logger    *zap.Logger
}

// NewLogService creates a sync log service
func NewLogService(
	syncLogs inventory.SyncLogRepository,
	syncTasks inventory.SyncTaskRepository,
	products catalog.ProductRepository,
	orders order.Repository,
	logger *zap.Logger,
) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{
		syncLogs:  syncLogs,
		syncTasks: syncTasks,
		products:  products,
		orders:    orders,
		logger:    logger,
	}
}

// List returns sync log entries matching the filter, newest first
func (s *LogService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[inventory.SyncLogEntry], error) {
	entries, total, err := s.syncLogs.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[inventory.SyncLogEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// Get returns a single sync log entry
func (s *LogService) Get(ctx context.Context, id uuid.UUID) (*inventory.SyncLogEntry, error) {
	return s.syncLogs.FindByID(ctx, id)
}

// ListByOrder returns the sync history of one order
func (s *LogService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.SyncLogEntry, error) {
	return s.syncLogs.FindByOrder(ctx, orderID)
}

// Retry schedules a fresh sync attempt for a failed log entry. Pending and
// successful entries are rejected, as are entries whose product no longer has
// a POS mapping.
func (s *LogService) Retry(ctx context.Context, logID uuid.UUID) (*inventory.SyncTask, error) {
	entry, err := s.syncLogs.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if !entry.IsRetryable() {
		return nil, shared.ErrNotRetryable
	}

	product, err := s.products.FindByID(ctx, entry.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrMissingExternalMapping
		}
		return nil, err
	}
	if !product.HasEposnowMapping() {
		return nil, shared.ErrMissingExternalMapping
	}

	fresh := &inventory.SyncLogEntry{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       entry.OrderID,
		ProductID:     entry.ProductID,
		SyncType:      entry.SyncType,
		Status:        inventory.SyncLogStatusPending,
		Quantity:      entry.Quantity,
		OldStock:      entry.OldStock,
		PaymentMethod: entry.PaymentMethod,
	}
	if err := s.syncLogs.Save(ctx, fresh); err != nil {
		return nil, err
	}

	task := inventory.NewSyncTask(entry.OrderID, entry.ProductID, *product.EposnowProductID,
		entry.Quantity, s.orderReference(ctx, entry.OrderID), entry.PaymentMethod)
	task.SyncLogID = &fresh.ID
	if err := s.syncTasks.Save(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("manual sync retry scheduled",
		zap.String("failed_log_id", entry.ID.String()),
		zap.String("new_log_id", fresh.ID.String()),
		zap.String("task_id", task.ID.String()),
		zap.String("epos_product_id", task.EposProductID),
	)
	return task, nil
}

func (s *LogService) orderReference(ctx context.Context, orderID *uuid.UUID) string {
	if orderID == nil {
		return ""
	}
	o, err := s.orders.FindByID(ctx, *orderID)
	if err != nil {
		return ""
	}
	return o.OrderReference
}
