package payment

import (
	"context"
	"time"

	"github.com/sabstore/backend/internal/domain/shared/valueobject"
)

// GatewayTransaction is the gateway's view of a payment. The gateway is
// authoritative: the settled amount here overrides any locally computed total.
type GatewayTransaction struct {
	Reference         string
	Status            string
	Amount            valueobject.Money
	Currency          string
	Channel           string
	GatewayResponse   string
	AuthorizationCode string
	CustomerEmail     string
	PaidAt            *time.Time
	RawPayload        []byte
}

// IsSuccessful reports whether the gateway settled the payment
func (t *GatewayTransaction) IsSuccessful() bool {
	return t.Status == "success"
}

// Gateway verifies payment references against an external payment provider
type Gateway interface {
	// Verify fetches the authoritative state of a payment by its gateway
	// reference. Transport failures are reported as GATEWAY_UNREACHABLE
	// domain errors so callers can distinguish them from declined payments.
	Verify(ctx context.Context, reference string) (*GatewayTransaction, error)
}
