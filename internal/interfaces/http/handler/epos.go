package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	syncapp "github.com/sabstore/backend/internal/application/sync"
	"github.com/sabstore/backend/internal/interfaces/http/dto"
)

// EposHandler exposes the POS sync audit trail and manual retries.
// Admin only.
type EposHandler struct {
	BaseHandler
	logService *syncapp.LogService
}

// NewEposHandler creates a new EposHandler
func NewEposHandler(logService *syncapp.LogService) *EposHandler {
	return &EposHandler{logService: logService}
}

// ListLogs returns sync log entries, filterable by status, sync type and
// product.
func (h *EposHandler) ListLogs(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.logService.List(c.Request.Context(), buildFilter(c, req, "status", "sync_type", "product_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetLog returns one sync log entry
func (h *EposHandler) GetLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid log ID")
		return
	}

	entry, err := h.logService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// ListOrderLogs returns the sync history of one order, newest first
func (h *EposHandler) ListOrderLogs(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	entries, err := h.logService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// RetryLog schedules a fresh sync attempt for a failed log entry. The failed
// row is left untouched; the retry reports into a new pending row.
func (h *EposHandler) RetryLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid log ID")
		return
	}

	task, err := h.logService.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}
