package service

import (
	"context"

	"directum-studio/models"
)

// PricingServiceInterface defines the contract for pricing operations
type PricingServiceInterface interface {
	Quote(ctx context.Context, req models.PriceQuoteRequest) ([]models.QuoteLine, error)
	ExportQuote(ctx context.Context, quoteID string, req models.PriceQuoteRequest) ([]byte, error)
	CalculatePrice(ctx context.Context, req models.CalculatePriceRequest) (*models.CalculatePriceResponse, error)
}
