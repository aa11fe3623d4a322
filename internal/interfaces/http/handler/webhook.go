package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/sabstore/backend/internal/application/inventory"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EposnowWebhookHandler receives sale notifications from the physical POS.
// The endpoint is called by EPOSNow and does not require authentication.
type EposnowWebhookHandler struct {
	BaseHandler
	products   catalog.ProductRepository
	deductions *inventoryapp.DeductionService
	logger     *zap.Logger
}

// NewEposnowWebhookHandler creates a new EposnowWebhookHandler
func NewEposnowWebhookHandler(products catalog.ProductRepository, deductions *inventoryapp.DeductionService, logger *zap.Logger) *EposnowWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EposnowWebhookHandler{
		products:   products,
		deductions: deductions,
		logger:     logger,
	}
}

// SaleNotification is the payload EPOSNow posts for a completed in-store sale
type SaleNotification struct {
	Reference string     `json:"Reference"`
	Products  []SaleLine `json:"Products"`
}

// SaleLine is one product line of a POS sale
type SaleLine struct {
	ProductID int64 `json:"ProductId"`
	Quantity  int   `json:"Quantity"`
}

// HandleSale applies an in-store sale to local stock. The sale already
// happened at the till, so every line is best effort: unmapped or unknown
// products are skipped with a warning and the response is always 200 so the
// POS never retries a partially applied notification.
func (h *EposnowWebhookHandler) HandleSale(c *gin.Context) {
	var payload SaleNotification
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("malformed pos sale payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	h.logger.Info("pos sale received",
		zap.String("reference", payload.Reference),
		zap.Int("lines", len(payload.Products)),
	)

	for _, line := range payload.Products {
		if line.ProductID == 0 {
			h.logger.Warn("pos sale line missing product id",
				zap.String("reference", payload.Reference))
			continue
		}

		eposProductID := strconv.FormatInt(line.ProductID, 10)
		product, err := h.products.FindByEposnowID(c.Request.Context(), eposProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				h.logger.Warn("pos product not mapped locally",
					zap.String("epos_product_id", eposProductID))
				continue
			}
			h.logger.Error("pos product lookup failed",
				zap.String("epos_product_id", eposProductID),
				zap.Error(err))
			continue
		}

		quantity := line.Quantity
		if quantity < 0 {
			quantity = -quantity
		}
		if quantity == 0 {
			continue
		}

		if err := h.deductions.DeductInStoreSale(c.Request.Context(), product.ID, quantity); err != nil {
			h.logger.Error("in-store sale deduction failed",
				zap.String("product_id", product.ID.String()),
				zap.String("epos_product_id", eposProductID),
				zap.Int("quantity", quantity),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
