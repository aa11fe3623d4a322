package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/sabstore/backend/internal/application/payment"
	"github.com/sabstore/backend/internal/interfaces/http/dto"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment verification and transaction history
type PaymentHandler struct {
	BaseHandler
	verificationService *paymentapp.VerificationService
	queryService        *paymentapp.QueryService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(verificationService *paymentapp.VerificationService, queryService *paymentapp.QueryService) *PaymentHandler {
	return &PaymentHandler{
		verificationService: verificationService,
		queryService:        queryService,
	}
}

// Verify confirms a payment against the gateway. The storefront calls this
// after the gateway redirects back with the charge reference. Replays return
// the already confirmed order and are reported as such.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	orderReference := c.Param("orderReference")
	if reference == "" || orderReference == "" {
		h.BadRequest(c, "Payment and order references are required")
		return
	}

	result, err := h.verificationService.Verify(c.Request.Context(), reference, orderReference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListTransactions returns the authenticated user's payment history
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.queryService.ListForUser(c.Request.Context(), userID, buildFilter(c, req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
