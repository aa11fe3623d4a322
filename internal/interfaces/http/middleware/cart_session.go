package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/cart"
)

// Cart session keys
const (
	CartOwnerKey      = "cart_owner"
	CartSessionHeader = "X-Cart-Session"
)

// CartSession resolves the cart owner for the request. Authenticated users
// own carts by user ID; guests by the X-Cart-Session header. A guest without
// a session gets a fresh one minted and echoed back so the client can persist
// it. Must run after the optional JWT middleware.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userIDStr := GetJWTUserID(c); userIDStr != "" {
			if userID, err := uuid.Parse(userIDStr); err == nil {
				c.Set(CartOwnerKey, cart.UserOwner(userID))
				c.Next()
				return
			}
		}

		sessionID := c.GetHeader(CartSessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Writer.Header().Set(CartSessionHeader, sessionID)
		c.Set(CartOwnerKey, cart.SessionOwner(sessionID))
		c.Next()
	}
}

// GetCartOwner retrieves the resolved cart owner from gin.Context
func GetCartOwner(c *gin.Context) (cart.OwnerKey, bool) {
	if v, exists := c.Get(CartOwnerKey); exists {
		if owner, ok := v.(cart.OwnerKey); ok {
			return owner, true
		}
	}
	return cart.OwnerKey{}, false
}
