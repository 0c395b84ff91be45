package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/repository"
	"directum-studio/utils"
)

// QuotePricer prices quote lines
type QuotePricer interface {
	PriceQuote(ctx context.Context, lines []models.QuoteLineRequest) ([]models.QuoteLine, error)
}

// GuardConfig toggles the checkout placement guard
type GuardConfig struct {
	Enabled           bool
	RejectClientSpecs bool
}

// CheckoutService gates checkout on complete print specs and opens a payment session
type CheckoutService struct {
	manifests repository.ManifestRepositoryInterface
	pricer    QuotePricer
	payments  PaymentGateway
	guard     GuardConfig
	logger    *zap.Logger
}

// Ensure CheckoutService implements CheckoutServiceInterface
var _ CheckoutServiceInterface = (*CheckoutService)(nil)

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(manifests repository.ManifestRepositoryInterface, pricer QuotePricer, payments PaymentGateway, guard GuardConfig, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		manifests: manifests,
		pricer:    pricer,
		payments:  payments,
		guard:     guard,
		logger:    logger,
	}
}

// ValidateLine decides whether one cart line has a design that production can use.
// An empty quoteID reads the design from the default quote.
// The error is only set when the design could not be read.
func (s *CheckoutService) ValidateLine(ctx context.Context, domain, quoteID, versionID, productID string) (models.Verdict, error) {
	v := models.Verdict{ProductID: productID, VersionID: versionID}
	if quoteID == "" {
		quoteID = models.DefaultQuoteID
	}
	if versionID == "" {
		v.Reason = models.ReasonMissingDesignVersion
		return v, nil
	}

	manifest, err := s.manifests.GetManifest(ctx, domain, quoteID, versionID, productID)
	switch {
	case apperr.IsCode(err, apperr.CodeNotFound):
		v.Reason = models.ReasonDesignNotFound
		return v, nil
	case err != nil:
		return v, err
	}

	if !manifest.Placement.HasPrintSpec() {
		v.Reason = models.ReasonMissingPrinterSpec
		return v, nil
	}
	if s.guard.RejectClientSpecs && manifest.Placement.SpecTrust == models.SpecTrustClient {
		v.Reason = models.ReasonUntrustedPrinterSpec
		return v, nil
	}
	v.OK = true
	return v, nil
}

// Checkout validates every line (when the guard is enabled), prices the cart and
// opens a payment session. The payment service is never called if a line is rejected.
func (s *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if len(req.Products) == 0 {
		return nil, apperr.InvalidInput("products are required")
	}
	if s.guard.Enabled && req.CustomerInfo.Email == "" {
		return nil, apperr.InvalidInput("customerInfo.email is required to validate design placement")
	}

	domain := utils.CompanyDomainFromEmail(req.CustomerInfo.Email)
	verdicts := make([]models.Verdict, 0, len(req.Products))
	versions := make(map[string]string, len(req.Products))
	rejected := 0

	for _, line := range req.Products {
		if line.ProductID == "" {
			return nil, apperr.InvalidInput("every product needs a productId")
		}
		versionID := line.VersionID
		if versionID == "" {
			versionID = req.VersionID
		}
		if versionID != "" {
			versions[line.ProductID] = versionID
		}

		if !s.guard.Enabled {
			verdicts = append(verdicts, models.Verdict{ProductID: line.ProductID, VersionID: versionID, OK: true})
			continue
		}
		v, err := s.ValidateLine(ctx, domain, req.QuoteID, versionID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !v.OK {
			rejected++
		}
		verdicts = append(verdicts, v)
	}

	if rejected > 0 {
		s.logger.Warn("🚫 checkout blocked by placement guard",
			zap.String("quoteId", req.QuoteID),
			zap.Int("rejected", rejected))
		return &models.CheckoutResult{Verdicts: verdicts}, apperr.WithMetadata(apperr.CodeInvalidInput,
			"placement-validation-failed", map[string]any{"verdicts": verdicts})
	}

	lines := make([]models.QuoteLineRequest, 0, len(req.Products))
	for _, line := range req.Products {
		lines = append(lines, models.QuoteLineRequest{
			ProductID:   line.ProductID,
			ProdEID:     line.ProductID,
			Qty:         line.Quantity,
			Decorations: line.Decorations,
		})
	}
	priced, err := s.pricer.PriceQuote(ctx, lines)
	if err != nil {
		return nil, err
	}

	versionsJSON, err := json.Marshal(versions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode versions: %w", err)
	}
	session, err := s.payments.CreateSession(ctx, models.PaymentSessionRequest{
		CustomerEmail: req.CustomerInfo.Email,
		Lines:         priced,
		Metadata: map[string]string{
			"quoteId":       req.QuoteID,
			"versions":      string(versionsJSON),
			"customerName":  req.CustomerInfo.Name,
			"company":       req.CustomerInfo.Company,
			"phone":         req.CustomerInfo.Phone,
			"companyDomain": domain,
		},
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckoutResult{URL: session.URL, Verdicts: verdicts}, nil
}
