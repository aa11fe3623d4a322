package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sabstore/backend/internal/domain/payment"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	verifyPath = "/transaction/verify/%s"

	// maxResponseSize caps how much of the gateway response is read
	maxResponseSize = 1 << 20
)

// PaystackConfig holds the Paystack API connection settings
type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// PaystackGateway implements payment.Gateway against the Paystack REST API.
// Amounts on the wire are in kobo; they are converted to naira on the way in.
type PaystackGateway struct {
	config     PaystackConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPaystackGateway creates a new Paystack gateway client
func NewPaystackGateway(config PaystackConfig, logger *zap.Logger) *PaystackGateway {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaystackGateway{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// verifyResponse mirrors the envelope Paystack wraps every response in
type verifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    verifyData `json:"data"`
}

type verifyData struct {
	Reference       string     `json:"reference"`
	Status          string     `json:"status"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	Channel         string     `json:"channel"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
	Authorization   struct {
		AuthorizationCode string `json:"authorization_code"`
	} `json:"authorization"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// Verify fetches the authoritative state of a payment from Paystack
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*payment.GatewayTransaction, error) {
	url := g.config.BaseURL + fmt.Sprintf(verifyPath, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("paystack request failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil, shared.ErrGatewayUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrGatewayUnreachable
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		g.logger.Warn("paystack returned server error",
			zap.String("reference", reference),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, shared.ErrGatewayUnreachable
	}

	var envelope verifyResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Status {
		g.logger.Info("paystack rejected verification",
			zap.String("reference", reference),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", envelope.Message),
		)
		return nil, shared.ErrVerificationFailed
	}

	// Paystack reports amounts in kobo.
	amount := valueobject.NewMoneyNGN(
		decimal.NewFromInt(envelope.Data.Amount).Div(decimal.NewFromInt(100)).Round(2),
	)

	return &payment.GatewayTransaction{
		Reference:         envelope.Data.Reference,
		Status:            envelope.Data.Status,
		Amount:            amount,
		Currency:          envelope.Data.Currency,
		Channel:           envelope.Data.Channel,
		GatewayResponse:   envelope.Data.GatewayResponse,
		AuthorizationCode: envelope.Data.Authorization.AuthorizationCode,
		CustomerEmail:     envelope.Data.Customer.Email,
		PaidAt:            envelope.Data.PaidAt,
		RawPayload:        body,
	}, nil
}

var _ payment.Gateway = (*PaystackGateway)(nil)
