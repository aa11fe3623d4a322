package payment

import (
	"context"
	"errors"
	"fmt"

	appinventory "github.com/sabstore/backend/internal/application/inventory"
	"github.com/sabstore/backend/internal/application/scope"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/payment"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Result is the outcome of a payment verification
type Result struct {
	Order            *order.Order         `json:"order"`
	Transaction      *payment.Transaction `json:"transaction"`
	AlreadyProcessed bool                 `json:"already_processed"`
}

// VerificationService confirms payments against the gateway. The gateway is
// the source of truth: a verification succeeds only when the gateway reports
// the charge settled, and the settled amount replaces the locally computed
// order total.
//
// Confirmation is idempotent at two levels. A fast path in the idempotency
// store short-circuits replayed callbacks without touching the gateway, and
// the status-guarded paid transition in the database makes a replay that
// slips past the fast path harmless.
type VerificationService struct {
	gateway     payment.Gateway
	txScope     scope.TransactionScope
	deductions  *appinventory.DeductionService
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewVerificationService creates a payment verification service
func NewVerificationService(
	gateway payment.Gateway,
	txScope scope.TransactionScope,
	deductions *appinventory.DeductionService,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	events shared.EventPublisher,
	logger *zap.Logger,
) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		gateway:     gateway,
		txScope:     txScope,
		deductions:  deductions,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		events:      events,
		logger:      logger,
	}
}

// Verify confirms the payment for the given gateway reference against the
// order identified by orderReference. On first success it marks the order
// paid, records the gateway transaction and deducts stock, all in one
// database transaction. Replays return the already confirmed order without
// deducting again.
func (s *VerificationService) Verify(ctx context.Context, reference, orderReference string) (*Result, error) {
	if replay, done, err := s.checkReplay(ctx, reference, orderReference); done {
		return replay, err
	}

	gtx, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		// Release the key so the next attempt is not mistaken for a replay.
		s.releaseKey(ctx, reference)
		return nil, err
	}
	if !gtx.IsSuccessful() {
		s.logger.Warn("gateway reported unsettled payment",
			zap.String("reference", reference),
			zap.String("gateway_status", gtx.Status),
		)
		s.releaseKey(ctx, reference)
		return nil, shared.ErrVerificationFailed
	}

	result := &Result{}
	err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		o, err := repos.Orders().FindByReference(ctx, orderReference)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("ORDER_NOT_FOUND",
					fmt.Sprintf("No order matches reference %s", orderReference))
			}
			return err
		}

		if o.Status == order.StatusPaid {
			result.Order = o
			result.AlreadyProcessed = true
			return nil
		}

		if err := o.MarkPaid(gtx.Reference, gtx.Channel, gtx.Amount); err != nil {
			return err
		}
		if err := repos.Orders().MarkPaid(ctx, o); err != nil {
			// Another confirmation won the status guard.
			if errors.Is(err, shared.ErrInvalidState) {
				current, readErr := repos.Orders().FindByReference(ctx, orderReference)
				if readErr != nil {
					return readErr
				}
				result.Order = current
				result.AlreadyProcessed = true
				return nil
			}
			return err
		}

		tx := s.transactionFrom(gtx, o)
		if err := repos.Transactions().Upsert(ctx, tx); err != nil {
			return err
		}

		if err := s.deductions.DeductForOrder(ctx, repos, o); err != nil {
			return err
		}

		result.Order = o
		result.Transaction = tx
		return nil
	})
	if err != nil {
		s.releaseKey(ctx, reference)
		return nil, err
	}

	if result.AlreadyProcessed {
		return result, nil
	}

	s.publishEvents(ctx, result.Order)

	s.logger.Info("payment confirmed",
		zap.String("reference", reference),
		zap.String("order_reference", result.Order.OrderReference),
		zap.String("settled_total", result.Order.Total.StringFixed(2)),
	)
	return result, nil
}

// checkReplay consults the idempotency store. done is true when the caller
// should return immediately with the replay result or error.
func (s *VerificationService) checkReplay(ctx context.Context, reference, orderReference string) (*Result, bool, error) {
	if !s.idemConfig.Enabled || s.idempotency == nil {
		return nil, false, nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, s.key(reference), s.idemConfig.TTL)
	if err != nil {
		// The store is an optimization; the status guard still protects us.
		s.logger.Warn("idempotency store unavailable", zap.Error(err))
		return nil, false, nil
	}
	if fresh {
		return nil, false, nil
	}

	var o *order.Order
	err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		found, err := repos.Orders().FindByReference(ctx, orderReference)
		if err != nil {
			return err
		}
		o = found
		return nil
	})
	if err != nil {
		return nil, true, err
	}
	return &Result{Order: o, AlreadyProcessed: true}, true, nil
}

func (s *VerificationService) releaseKey(ctx context.Context, reference string) {
	if !s.idemConfig.Enabled || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Remove(ctx, s.key(reference)); err != nil {
		s.logger.Warn("failed to release idempotency key",
			zap.String("reference", reference), zap.Error(err))
	}
}

func (s *VerificationService) key(reference string) string {
	return "payment:verify:" + reference
}

func (s *VerificationService) transactionFrom(gtx *payment.GatewayTransaction, o *order.Order) *payment.Transaction {
	return &payment.Transaction{
		BaseEntity:        shared.NewBaseEntity(),
		Reference:         gtx.Reference,
		OrderID:           o.ID,
		UserID:            o.UserID,
		Amount:            gtx.Amount,
		Currency:          gtx.Currency,
		Status:            gtx.Status,
		Channel:           gtx.Channel,
		GatewayResponse:   gtx.GatewayResponse,
		AuthorizationCode: gtx.AuthorizationCode,
		CustomerEmail:     gtx.CustomerEmail,
		RawPayload:        gtx.RawPayload,
		PaidAt:            gtx.PaidAt,
	}
}

func (s *VerificationService) publishEvents(ctx context.Context, o *order.Order) {
	if s.events == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_reference", o.OrderReference), zap.Error(err))
	}
	o.ClearDomainEvents()
}
