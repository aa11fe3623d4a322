package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState            = "ERR_INVALID_STATE"
	ErrCodeEmptyCart               = "ERR_EMPTY_CART"
	ErrCodeInsufficientStock       = "ERR_INSUFFICIENT_STOCK"
	ErrCodeCouponInvalid           = "ERR_COUPON_INVALID"
	ErrCodeCouponExhausted         = "ERR_COUPON_EXHAUSTED"
	ErrCodeVerificationFailed      = "ERR_VERIFICATION_FAILED"
	ErrCodeNotRetryable            = "ERR_NOT_RETRYABLE"
	ErrCodeMissingExternalMapping  = "ERR_MISSING_EXTERNAL_MAPPING"
	ErrCodeInvalidFulfillmentState = "ERR_INVALID_FULFILLMENT_STATE"
)

// Upstream error codes
const (
	ErrCodeGatewayUnreachable    = "ERR_GATEWAY_UNREACHABLE"
	ErrCodeExternalServiceFailed = "ERR_EXTERNAL_SERVICE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:               http.StatusBadRequest,
	ErrCodeInsufficientStock:       http.StatusUnprocessableEntity,
	ErrCodeCouponInvalid:           http.StatusUnprocessableEntity,
	ErrCodeCouponExhausted:         http.StatusUnprocessableEntity,
	ErrCodeVerificationFailed:      http.StatusBadRequest,
	ErrCodeNotRetryable:            http.StatusUnprocessableEntity,
	ErrCodeMissingExternalMapping:  http.StatusUnprocessableEntity,
	ErrCodeInvalidFulfillmentState: http.StatusBadRequest,

	ErrCodeGatewayUnreachable:    http.StatusBadGateway,
	ErrCodeExternalServiceFailed: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_QUANTITY":          ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"EMPTY_CART":                ErrCodeEmptyCart,
	"INSUFFICIENT_STOCK":        ErrCodeInsufficientStock,
	"COUPON_INVALID":            ErrCodeCouponInvalid,
	"COUPON_EXHAUSTED":          ErrCodeCouponExhausted,
	"VERIFICATION_FAILED":       ErrCodeVerificationFailed,
	"GATEWAY_UNREACHABLE":       ErrCodeGatewayUnreachable,
	"NOT_RETRYABLE":             ErrCodeNotRetryable,
	"MISSING_EXTERNAL_MAPPING":  ErrCodeMissingExternalMapping,
	"EXTERNAL_SERVICE_FAILED":   ErrCodeExternalServiceFailed,
	"INVALID_FULFILLMENT_STATE": ErrCodeInvalidFulfillmentState,
	"ORDER_NOT_FOUND":           ErrCodeNotFound,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes without a mapping pass through as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
