package service

import (
	"context"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/pricing"
)

// TierSource returns a product's simple price tiers
type TierSource interface {
	PriceTiers(ctx context.Context, productID string) ([]models.PriceTier, error)
}

// PricingService fronts the decoration pricing engine and the per-product tier tables
type PricingService struct {
	engine QuotePricer
	tiers  TierSource
	logger *zap.Logger
}

// Ensure PricingService implements PricingServiceInterface
var _ PricingServiceInterface = (*PricingService)(nil)

// NewPricingService creates a new PricingService. tiers may be nil, in which
// case every product is priced from the fallback tiers.
func NewPricingService(engine QuotePricer, tiers TierSource, logger *zap.Logger) *PricingService {
	return &PricingService{engine: engine, tiers: tiers, logger: logger}
}

// Quote prices decoration quote lines
func (s *PricingService) Quote(ctx context.Context, req models.PriceQuoteRequest) ([]models.QuoteLine, error) {
	if len(req.Lines) == 0 {
		return nil, apperr.InvalidInput("lines required")
	}
	return s.engine.PriceQuote(ctx, req.Lines)
}

// ExportQuote prices the lines and returns them as an XLSX workbook
func (s *PricingService) ExportQuote(ctx context.Context, quoteID string, req models.PriceQuoteRequest) ([]byte, error) {
	lines, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExportQuoteXLSX(quoteID, lines)
}

// CalculatePrice prices qty units of a product from its tier table
func (s *PricingService) CalculatePrice(ctx context.Context, req models.CalculatePriceRequest) (*models.CalculatePriceResponse, error) {
	if req.ProductID == "" {
		return nil, apperr.InvalidInput("productId required")
	}

	var tiers []models.PriceTier
	if s.tiers != nil {
		found, err := s.tiers.PriceTiers(ctx, req.ProductID)
		if err != nil {
			s.logger.Warn("⚠️  price tiers unavailable, using fallback tiers",
				zap.String("productId", req.ProductID), zap.Error(err))
		} else {
			tiers = found
		}
	}
	return pricing.TierPrice(req.ProductID, tiers, req.Quantity)
}
