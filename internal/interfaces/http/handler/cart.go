package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/sabstore/backend/internal/application/cart"
	"github.com/sabstore/backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart API endpoints. The cart owner is resolved by the
// session middleware: authenticated users get a user cart, guests a session
// cart keyed by the X-Cart-Session header.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest is the request body for adding a line to the cart
type AddItemRequest struct {
	ProductID       string  `json:"product_id" binding:"required,uuid"`
	Quantity        int     `json:"quantity" binding:"required,min=1"`
	Color           *string `json:"color"`
	CustomizationID *string `json:"customization_id" binding:"omitempty,uuid"`
}

// UpdateItemRequest is the request body for changing a line quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// MergeRequest is the request body for merging a guest cart after login
type MergeRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Get returns the owner's cart. Owners without a cart get an empty one.
func (h *CartHandler) Get(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem adds a product line to the owner's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	input := cartapp.AddItemInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		Color:     req.Color,
	}
	if req.CustomizationID != nil {
		customizationID, err := uuid.Parse(*req.CustomizationID)
		if err != nil {
			h.BadRequest(c, "Invalid customization ID")
			return
		}
		input.CustomizationID = &customizationID
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), owner, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateItem changes the quantity of a cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), owner, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), owner, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear empties the owner's cart
func (h *CartHandler) Clear(c *gin.Context) {
	owner, ok := middleware.GetCartOwner(c)
	if !ok {
		h.InternalError(c, "Cart owner not resolved")
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Merge folds a guest session cart into the authenticated user's cart.
// Called by the storefront right after login.
func (h *CartHandler) Merge(c *gin.Context) {
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

	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.Merge(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}
