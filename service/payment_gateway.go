package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
)

// PaymentGateway creates payment sessions for approved carts
type PaymentGateway interface {
	CreateSession(ctx context.Context, req models.PaymentSessionRequest) (*models.PaymentSession, error)
}

// HTTPPaymentGateway posts session requests to the payment service
type HTTPPaymentGateway struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure HTTPPaymentGateway implements PaymentGateway
var _ PaymentGateway = (*HTTPPaymentGateway)(nil)

// NewHTTPPaymentGateway creates a gateway for the session endpoint
func NewHTTPPaymentGateway(endpoint, token string, logger *zap.Logger) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// CreateSession requests a payment session and returns its URL
func (g *HTTPPaymentGateway) CreateSession(ctx context.Context, sessionReq models.PaymentSessionRequest) (*models.PaymentSession, error) {
	if g.endpoint == "" {
		return nil, apperr.Upstream("payment service is not configured", nil)
	}

	body, err := json.Marshal(sessionReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("payment service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperr.Upstream("payment service rejected the session",
			fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	var session models.PaymentSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, apperr.Upstream("payment service response is not JSON", err)
	}
	if session.URL == "" {
		return nil, apperr.Upstream("payment service returned no session url", nil)
	}

	g.logger.Info("💳 payment session created", zap.String("customer", sessionReq.CustomerEmail))
	return &session, nil
}
