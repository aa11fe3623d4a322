package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/sabstore/backend/internal/application/checkout"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// CheckoutHandler turns the owner's cart into a pending order
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CheckoutRequest is the request body for placing an order
type CheckoutRequest struct {
	ShippingAddress string   `json:"shipping_address" binding:"required,max=512"`
	PaymentMethod   string   `json:"payment_method" binding:"required,oneof=paystack transfer"`
	CouponCode      string   `json:"coupon_code"`
	DeliveryFee     *string  `json:"delivery_fee"`
	TaxRate         *float64 `json:"tax_rate" binding:"omitempty,min=0,max=100"`
}

// Checkout prices the cart and creates a pending order. The cart is cleared
// on success; payment happens afterwards against the returned reference.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	deliveryFee := valueobject.ZeroNGN()
	if req.DeliveryFee != nil {
		fee, err := valueobject.NewMoneyNGNFromString(*req.DeliveryFee)
		if err != nil || fee.IsNegative() {
			h.BadRequest(c, "Invalid delivery fee")
			return
		}
		deliveryFee = fee
	}

	input := checkoutapp.Input{
		Owner:           owner,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		DeliveryFee:     deliveryFee,
	}
	if req.TaxRate != nil {
		rate := decimal.NewFromFloat(*req.TaxRate)
		input.TaxRate = &rate
	}

	placed, err := h.checkoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, placed)
}
