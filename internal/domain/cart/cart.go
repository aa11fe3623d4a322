package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
)

// OwnerKey identifies the owner of a cart: an authenticated user or an
// anonymous session. Exactly one of the two fields is set.
type OwnerKey struct {
	UserID    *uuid.UUID
	SessionID *string
}

// UserOwner creates an owner key for an authenticated user
func UserOwner(userID uuid.UUID) OwnerKey {
	return OwnerKey{UserID: &userID}
}

// SessionOwner creates an owner key for an anonymous session
func SessionOwner(sessionID string) OwnerKey {
	return OwnerKey{SessionID: &sessionID}
}

// IsUser reports whether the owner is an authenticated user
func (k OwnerKey) IsUser() bool {
	return k.UserID != nil
}

// Cart is the aggregate root for a shopper's open cart.
// Total is always the sum of line subtotals; every mutation recomputes it.
type Cart struct {
	shared.BaseAggregateRoot
	UserID    *uuid.UUID        `gorm:"type:uuid;index"`
	SessionID *string           `gorm:"size:64;index"`
	Total     valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`

	Items []CartItem `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a line in a cart. Price is snapshotted from the product at the
// time the line is added.
type CartItem struct {
	shared.BaseEntity
	CartID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID         `gorm:"type:uuid;not null"`
	Quantity        int               `gorm:"not null"`
	Price           valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Color           *string           `gorm:"size:64"`
	CustomizationID *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns price * quantity for this line
func (i *CartItem) Subtotal() valueobject.Money {
	return i.Price.MultiplyByInt(int64(i.Quantity))
}

// NewCart creates an empty cart for the given owner
func NewCart(owner OwnerKey) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            owner.UserID,
		SessionID:         owner.SessionID,
		Total:             valueobject.ZeroNGN(),
		Items:             make([]CartItem, 0),
	}
}

// matchesLine reports whether an existing line matches the dedup key of a new
// line: same product, same color, same customization. Nil values only match
// other nil values.
func matchesLine(existing *CartItem, productID uuid.UUID, color *string, customizationID *uuid.UUID) bool {
	if existing.ProductID != productID {
		return false
	}
	if (existing.Color == nil) != (color == nil) {
		return false
	}
	if existing.Color != nil && *existing.Color != *color {
		return false
	}
	if (existing.CustomizationID == nil) != (customizationID == nil) {
		return false
	}
	if existing.CustomizationID != nil && *existing.CustomizationID != *customizationID {
		return false
	}
	return true
}

// AddItem adds a line to the cart, merging quantities when a line with the
// same product, color and customization already exists.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, price valueobject.Money, color *string, customizationID *uuid.UUID) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for idx := range c.Items {
		if matchesLine(&c.Items[idx], productID, color, customizationID) {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.RecalculateTotal()
			return nil
		}
	}

	item := CartItem{
		BaseEntity:      shared.NewBaseEntity(),
		CartID:          c.ID,
		ProductID:       productID,
		Quantity:        quantity,
		Price:           price,
		Color:           color,
		CustomizationID: customizationID,
	}
	c.Items = append(c.Items, item)
	c.RecalculateTotal()
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.RecalculateTotal()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.RecalculateTotal()
			return nil
		}
	}
	return shared.ErrNotFound
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// RecalculateTotal restores the invariant that Total equals the sum of all
// line subtotals.
func (c *Cart) RecalculateTotal() {
	total := valueobject.ZeroNGN()
	for idx := range c.Items {
		total = total.MustAdd(c.Items[idx].Subtotal())
	}
	c.Total = total
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AbsorbLines merges the lines of another cart into this one, then empties
// the source. Used when a guest logs in and their session cart is merged into
// the user cart.
func (c *Cart) AbsorbLines(source *Cart) {
	for idx := range source.Items {
		line := &source.Items[idx]
		_ = c.AddItem(line.ProductID, line.Quantity, line.Price, line.Color, line.CustomizationID)
	}
	source.Items = nil
	source.RecalculateTotal()
}

// Repository defines persistence operations for carts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindByOwner(ctx context.Context, owner OwnerKey) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
