package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/sabstore/backend/internal/application/order"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/interfaces/http/dto"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order lookup and fulfillment endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// UpdateFulfillmentRequest is the request body for moving an order through
// the fulfillment pipeline
type UpdateFulfillmentRequest struct {
	Status string `json:"status" binding:"required,fulfillment_status"`
}

// ownedBy reports whether the order belongs to the resolved cart owner.
// Guests only see orders placed under their own session.
func ownedBy(o *order.Order, owner cart.OwnerKey) bool {
	if owner.UserID != nil {
		return o.UserID != nil && *o.UserID == *owner.UserID
	}
	if owner.SessionID != nil {
		return o.SessionID != nil && *o.SessionID == *owner.SessionID
	}
	return false
}

// GetByReference returns one of the caller's orders by its public reference.
// Orders belonging to someone else read as not found.
func (h *OrderHandler) GetByReference(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	found, err := h.orderService.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ownedBy(found, owner) {
		h.NotFound(c, "Order not found")
		return
	}
	h.Success(c, found)
}

// List returns the caller's orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.orderService.ListForOwner(c.Request.Context(), owner, buildFilter(c, req, "status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListAll returns all orders. Admin only.
func (h *OrderHandler) ListAll(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.orderService.ListAll(c.Request.Context(), buildFilter(c, req, "status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one order by ID. Admin only.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	found, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// UpdateFulfillment moves an order through the fulfillment pipeline.
// Admin only. Status changes notify the customer.
func (h *OrderHandler) UpdateFulfillment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req UpdateFulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.orderService.UpdateFulfillment(c.Request.Context(), id, order.FulfillmentStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
