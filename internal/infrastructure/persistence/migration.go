package persistence

import (
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the database schema for all storefront tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&coupon.Coupon{},
		&order.Order{},
		&order.OrderItem{},
		&payment.Transaction{},
		&inventory.StockItem{},
		&inventory.SyncLogEntry{},
		&inventory.SyncTask{},
	)
}
