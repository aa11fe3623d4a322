package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service manages shoppers' open carts. Carts are created lazily on the
// first mutation for an owner.
type Service struct {
	carts    cart.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewService creates a cart service
func NewService(carts cart.Repository, products catalog.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, products: products, logger: logger}
}

// AddItemInput carries the parameters for adding a line to a cart
type AddItemInput struct {
	ProductID       uuid.UUID
	Quantity        int
	Color           *string
	CustomizationID *uuid.UUID
}

// Get returns the owner's cart, or an empty unsaved cart when none exists yet
func (s *Service) Get(ctx context.Context, owner cart.OwnerKey) (*cart.Cart, error) {
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.NewCart(owner), nil
		}
		return nil, err
	}
	return c, nil
}

// AddItem adds a product line to the owner's cart, snapshotting the current
// product price. The cart is created if the owner has none.
func (s *Service) AddItem(ctx context.Context, owner cart.OwnerKey, input AddItemInput) (*cart.Cart, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}
	if input.CustomizationID != nil && !product.Customizable {
		return nil, shared.NewDomainError("NOT_CUSTOMIZABLE", "Product does not support customization")
	}

	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		c = cart.NewCart(owner)
	}

	if err := c.AddItem(product.ID, input.Quantity, product.Price, input.Color, input.CustomizationID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("cart_id", c.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", input.Quantity),
	)
	return c, nil
}

// UpdateItemQuantity changes the quantity of a cart line
func (s *Service) UpdateItemQuantity(ctx context.Context, owner cart.OwnerKey, itemID uuid.UUID, quantity int) (*cart.Cart, error) {
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a line from the owner's cart
func (s *Service) RemoveItem(ctx context.Context, owner cart.OwnerKey, itemID uuid.UUID) (*cart.Cart, error) {
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear removes every line from the owner's cart. Clearing an absent cart is
// a no-op returning an empty cart.
func (s *Service) Clear(ctx context.Context, owner cart.OwnerKey) (*cart.Cart, error) {
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.NewCart(owner), nil
		}
		return nil, err
	}
	if err := s.carts.DeleteItems(ctx, c.ID); err != nil {
		return nil, err
	}
	c.Items = nil
	c.RecalculateTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge folds a guest session cart into the authenticated user's cart.
// Used right after login; the session cart is removed afterwards.
func (s *Service) Merge(ctx context.Context, userID uuid.UUID, sessionID string) (*cart.Cart, error) {
	guestCart, err := s.carts.FindByOwner(ctx, cart.SessionOwner(sessionID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.Get(ctx, cart.UserOwner(userID))
		}
		return nil, err
	}

	userCart, err := s.carts.FindByOwner(ctx, cart.UserOwner(userID))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		userCart = cart.NewCart(cart.UserOwner(userID))
	}

	userCart.AbsorbLines(guestCart)
	if err := s.carts.Save(ctx, userCart); err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, guestCart.ID); err != nil {
		s.logger.Warn("failed to remove merged guest cart",
			zap.String("cart_id", guestCart.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("guest cart merged",
		zap.String("user_id", userID.String()),
		zap.String("session_id", sessionID),
		zap.Int("lines", len(userCart.Items)),
	)
	return userCart, nil
}
