package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	adjustStockPath = "/Inventory/AdjustStock"

	// maxResponseSize caps how much of the POS response is read
	maxResponseSize = 1 << 20
)

// EposnowConfig holds the EPOSNow API connection settings
type EposnowConfig struct {
	BaseURL    string
	APIKey     string
	LocationID int
	Timeout    time.Duration
}

// EposnowClient implements inventory.PosClient against the EPOSNow REST API.
// Stock reductions are sent as negative-quantity sale adjustments.
type EposnowClient struct {
	config     EposnowConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewEposnowClient creates a new EPOSNow API client
func NewEposnowClient(config EposnowConfig, logger *zap.Logger) *EposnowClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EposnowClient{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// adjustStockRequest is the wire payload for a stock adjustment
type adjustStockRequest struct {
	ProductID      int    `json:"ProductId"`
	LocationID     int    `json:"LocationId"`
	AdjustmentType string `json:"AdjustmentType"`
	Quantity       int    `json:"Quantity"`
	Reference      string `json:"Reference,omitempty"`
}

// AdjustStock pushes one stock reduction to the POS and returns the raw
// response body for the audit log.
func (c *EposnowClient) AdjustStock(ctx context.Context, eposProductID string, quantity int, reference string) ([]byte, error) {
	productID, err := strconv.Atoi(eposProductID)
	if err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE_FAILED",
			fmt.Sprintf("Invalid EPOSNow product id %q", eposProductID))
	}

	payload := adjustStockRequest{
		ProductID:      productID,
		LocationID:     c.config.LocationID,
		AdjustmentType: "Sale",
		Quantity:       -abs(quantity),
		Reference:      reference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("eposnow: failed to marshal payload: %w", err)
	}

	url := c.config.BaseURL + adjustStockPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("eposnow: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("eposnow request failed",
			zap.String("epos_product_id", eposProductID),
			zap.Error(err),
		)
		return nil, shared.ErrExternalServiceFailed
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrExternalServiceFailed
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("eposnow rejected stock adjustment",
			zap.String("epos_product_id", eposProductID),
			zap.Int("status_code", resp.StatusCode),
		)
		return respBody, shared.NewDomainError("EXTERNAL_SERVICE_FAILED",
			fmt.Sprintf("EPOSNow stock sync failed (%d)", resp.StatusCode))
	}

	return respBody, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var _ inventory.PosClient = (*EposnowClient)(nil)
