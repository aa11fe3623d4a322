package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/payment"
	"github.com/sabstore/backend/internal/domain/shared"
)

// QueryService exposes read access to recorded payment transactions
type QueryService struct {
	transactions payment.TransactionRepository
}

// NewQueryService creates a payment query service
func NewQueryService(transactions payment.TransactionRepository) *QueryService {
	return &QueryService{transactions: transactions}
}

// ListForUser returns the authenticated user's payment history
func (s *QueryService) ListForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[payment.Transaction], error) {
	transactions, total, err := s.transactions.FindByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[payment.Transaction]{}, err
	}
	return shared.NewPaginated(transactions, total, filter.Page, filter.PageSize), nil
}
