package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized            = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden               = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart               = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrCouponInvalid           = NewDomainError("COUPON_INVALID", "Coupon is invalid or expired")
	ErrCouponExhausted         = NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit reached")
	ErrVerificationFailed      = NewDomainError("VERIFICATION_FAILED", "Payment could not be verified")
	ErrGatewayUnreachable      = NewDomainError("GATEWAY_UNREACHABLE", "Payment gateway is unreachable")
	ErrNotRetryable            = NewDomainError("NOT_RETRYABLE", "Only failed sync entries can be retried")
	ErrMissingExternalMapping  = NewDomainError("MISSING_EXTERNAL_MAPPING", "Product has no external POS mapping")
	ErrExternalServiceFailed   = NewDomainError("EXTERNAL_SERVICE_FAILED", "External service call failed")
	ErrInvalidFulfillmentState = NewDomainError("INVALID_FULFILLMENT_STATE", "Unknown fulfillment status")
)
