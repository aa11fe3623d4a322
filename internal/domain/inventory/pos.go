package inventory

import "context"

// PosClient pushes stock adjustments to the external point of sale.
// Implementations report transport and API failures as
// EXTERNAL_SERVICE_FAILED domain errors and return the raw provider response
// for the audit log when one was received.
type PosClient interface {
	// AdjustStock decrements the POS stock level for the mapped product by
	// the given quantity. The reference ties the adjustment back to the
	// originating order in the provider's records.
	AdjustStock(ctx context.Context, eposProductID string, quantity int, reference string) (response []byte, err error)
}
