package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/application/scope"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// casAttempts bounds the compare-and-swap retry loop for clamped deductions
const casAttempts = 5

// DeductionService applies stock deductions for confirmed sales.
//
// Online orders are deducted in one batch inside the payment confirmation
// transaction: unknown products are skipped with a warning, but a single
// line with insufficient stock aborts the whole batch so no partial
// deduction is ever committed.
//
// In-store sales arrive via the POS webhook after the fact and cannot be
// rejected, so they deduct with a clamped compare-and-swap.
type DeductionService struct {
	stock    inventory.StockRepository
	syncLogs inventory.SyncLogRepository
	logger   *zap.Logger
}

// NewDeductionService creates a deduction service. The direct repositories
// are used by the webhook path; the batch path receives transaction-scoped
// repositories from its caller.
func NewDeductionService(stock inventory.StockRepository, syncLogs inventory.SyncLogRepository, logger *zap.Logger) *DeductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeductionService{
		stock:    stock,
		syncLogs: syncLogs,
		logger:   logger,
	}
}

// DeductForOrder deducts stock for every line of a paid order. Must be called
// inside the payment confirmation transaction; returning an error rolls the
// whole confirmation back.
func (s *DeductionService) DeductForOrder(ctx context.Context, repos scope.TransactionalRepositories, o *order.Order) error {
	for idx := range o.Items {
		line := &o.Items[idx]

		item, err := repos.Stock().FindByProductID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("no stock record for order line, skipping",
					zap.String("order_reference", o.OrderReference),
					zap.String("product_id", line.ProductID.String()),
				)
				continue
			}
			return err
		}

		oldStock := item.CurrentStock
		if err := item.Deduct(line.Quantity); err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				s.logger.Error("insufficient stock, aborting deduction batch",
					zap.String("order_reference", o.OrderReference),
					zap.String("product_id", line.ProductID.String()),
					zap.Int("available", oldStock),
					zap.Int("requested", line.Quantity),
				)
			}
			return err
		}

		if err := repos.Stock().SaveWithLock(ctx, item); err != nil {
			return err
		}

		entry := &inventory.SyncLogEntry{
			BaseEntity:    shared.NewBaseEntity(),
			OrderID:       &o.ID,
			ProductID:     line.ProductID,
			SyncType:      inventory.SyncTypeSale,
			Status:        inventory.SyncLogStatusPending,
			Quantity:      line.Quantity,
			OldStock:      oldStock,
			PaymentMethod: "online",
		}

		product, err := repos.Products().FindByID(ctx, line.ProductID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if product == nil || !product.HasEposnowMapping() {
			entry.MarkFailed("Product has no external POS mapping", nil)
		}
		if err := repos.SyncLogs().Save(ctx, entry); err != nil {
			return err
		}

		if product != nil && product.HasEposnowMapping() {
			task := inventory.NewSyncTask(&o.ID, line.ProductID, *product.EposnowProductID,
				line.Quantity, o.OrderReference, "online")
			task.SyncLogID = &entry.ID
			if err := repos.SyncTasks().Save(ctx, task); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeductInStoreSale records a sale that already happened at the physical POS.
// The deduction is clamped at zero and applied with a compare-and-swap so
// concurrent writers never double-deduct.
func (s *DeductionService) DeductInStoreSale(ctx context.Context, productID uuid.UUID, quantity int) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := s.stock.FindByProductID(ctx, productID)
		if err != nil {
			return err
		}

		oldStock := item.CurrentStock
		newValue, ok, err := s.stock.TryDeduct(ctx, productID, quantity, oldStock)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the swap to a concurrent writer; re-read and retry.
			continue
		}

		entry := &inventory.SyncLogEntry{
			BaseEntity:    shared.NewBaseEntity(),
			ProductID:     productID,
			SyncType:      inventory.SyncTypePosSale,
			Quantity:      quantity,
			OldStock:      oldStock,
			PaymentMethod: "pos",
		}
		entry.MarkSuccess(newValue, nil)
		if err := s.syncLogs.Save(ctx, entry); err != nil {
			return err
		}

		s.logger.Info("in-store sale applied",
			zap.String("product_id", productID.String()),
			zap.Int("quantity", quantity),
			zap.Int("old_stock", oldStock),
			zap.Int("new_stock", newValue),
		)
		return nil
	}
	return shared.ErrConcurrencyConflict
}
