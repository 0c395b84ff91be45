package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/placement"
	"directum-studio/repository"
	"directum-studio/storage"
	"directum-studio/utils"
)

// PutManifestInput is one design submission for a product of a quote version
type PutManifestInput struct {
	Email     string
	QuoteID   string
	VersionID string
	ProductID string
	LogoRef   string
	Name      string
	Placement models.Placement
}

// DesignService handles design manifests and quote versions
type DesignService struct {
	manifests repository.ManifestRepositoryInterface
	styles    *StyleResolver
	chain     *placement.Chain
	logger    *zap.Logger
	now       func() time.Time
}

// Ensure DesignService implements DesignServiceInterface
var _ DesignServiceInterface = (*DesignService)(nil)

// NewDesignService creates a new DesignService
func NewDesignService(manifests repository.ManifestRepositoryInterface, styles *StyleResolver, chain *placement.Chain, logger *zap.Logger) *DesignService {
	return &DesignService{
		manifests: manifests,
		styles:    styles,
		chain:     chain,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PutManifest normalizes the placement, overwrites the product's manifest and
// records the product in the version index. When the index update loses every
// retry the manifest is already stored and a Conflict is returned.
func (s *DesignService) PutManifest(ctx context.Context, in PutManifestInput) (*models.SaveDesignResponse, error) {
	if err := validateIDs(in.QuoteID, in.VersionID, in.ProductID); err != nil {
		return nil, err
	}
	logoRef := strings.TrimSpace(in.LogoRef)
	if logoRef == "" {
		return nil, apperr.InvalidInput("logoRef is required")
	}
	if err := placement.ValidateBox(in.Placement.Px); err != nil {
		return nil, err
	}

	domain := utils.CompanyDomainFromEmail(in.Email)
	styleID := s.styles.StyleID(ctx, in.ProductID)

	p := in.Placement
	p.View = utils.NormalizeView(p.View)
	p.Size = utils.NormalizeSize(p.Size)

	d, err := s.chain.Resolve(ctx, placement.Input{StyleID: styleID, ProductID: in.ProductID, Placement: p})
	if err != nil {
		return nil, err
	}
	applyDerivation(&p, d)

	manifest := models.DesignManifest{
		ProductID: in.ProductID,
		LogoRef:   logoRef,
		Placement: p,
		UpdatedAt: s.now(),
	}
	designKey, err := s.manifests.PutManifest(ctx, domain, in.QuoteID, in.VersionID, &manifest)
	if err != nil {
		return nil, err
	}

	entry := models.VersionEntry{ProductID: in.ProductID, UpdatedAt: manifest.UpdatedAt}
	defaults := repository.IndexDefaults{Name: in.Name, CreatedBy: strings.TrimSpace(in.Email)}
	if _, err := s.manifests.UpsertIndexEntry(ctx, domain, in.QuoteID, in.VersionID, entry, defaults); err != nil {
		s.logger.Error("❌ design stored but version index not updated",
			zap.String("designKey", designKey),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("✅ design saved",
		zap.String("designKey", designKey),
		zap.String("specSource", p.SpecSource),
		zap.String("specTrust", p.SpecTrust))
	return &models.SaveDesignResponse{
		DesignKey: designKey,
		IndexKey:  storage.IndexKey(domain, in.QuoteID, in.VersionID),
		Design:    manifest,
	}, nil
}

// applyDerivation stamps the chain result on the placement. Without a result the
// placement keeps no scale or print spec, so it cannot pass the checkout guard.
func applyDerivation(p *models.Placement, d *placement.Derivation) {
	if d == nil {
		p.PxPerIn = nil
		p.PrinterSpec = nil
		p.SpecSource = ""
		p.SpecTrust = ""
		return
	}
	pxPerIn := d.PxPerIn
	spec := d.Spec
	p.PxPerIn = &pxPerIn
	p.PrinterSpec = &spec
	p.SpecSource = d.Source
	p.SpecTrust = d.Trust
}

// GetManifest returns one stored design
func (s *DesignService) GetManifest(ctx context.Context, email, quoteID, versionID, productID string) (*models.DesignManifest, error) {
	if err := validateIDs(quoteID, versionID, productID); err != nil {
		return nil, err
	}
	return s.manifests.GetManifest(ctx, utils.CompanyDomainFromEmail(email), quoteID, versionID, productID)
}

// GetVersionIndex returns the index of a quote version
func (s *DesignService) GetVersionIndex(ctx context.Context, email, quoteID, versionID string) (*models.VersionIndex, error) {
	if err := validateIDs(quoteID, versionID); err != nil {
		return nil, err
	}
	return s.manifests.GetIndex(ctx, utils.CompanyDomainFromEmail(email), quoteID, versionID)
}

// CreateVersion creates an empty version of a quote. A missing version id is generated.
func (s *DesignService) CreateVersion(ctx context.Context, quoteID string, req models.CreateVersionRequest) (*models.VersionSummary, error) {
	versionID := strings.TrimSpace(req.VersionID)
	if versionID == "" {
		versionID = uuid.NewString()
	}
	if err := validateIDs(quoteID, versionID); err != nil {
		return nil, err
	}

	domain := utils.CompanyDomainFromEmail(req.Email)
	idx, err := s.manifests.CreateIndex(ctx, domain, quoteID, versionID, repository.IndexDefaults{
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: strings.TrimSpace(req.Email),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("🆕 version created", zap.String("quoteId", quoteID), zap.String("versionId", versionID))
	return &models.VersionSummary{
		VersionID:    versionID,
		Name:         idx.Name,
		CreatedBy:    idx.CreatedBy,
		CreatedAt:    idx.CreatedAt,
		ProductCount: len(idx.Products),
	}, nil
}

// ListVersions lists the versions of a quote, oldest first
func (s *DesignService) ListVersions(ctx context.Context, email, quoteID string) ([]models.VersionSummary, error) {
	if err := validateIDs(quoteID); err != nil {
		return nil, err
	}
	return s.manifests.ListVersions(ctx, utils.CompanyDomainFromEmail(email), quoteID)
}

// ListVersionsContainingProduct returns the versions of a quote holding a design for productID
func (s *DesignService) ListVersionsContainingProduct(ctx context.Context, email, quoteID, productID string) ([]string, error) {
	if err := validateIDs(quoteID, productID); err != nil {
		return nil, err
	}
	return s.manifests.ListVersionsContainingProduct(ctx, utils.CompanyDomainFromEmail(email), quoteID, productID)
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if !storage.ValidSegment(id) {
			return apperr.InvalidInput(fmt.Sprintf("invalid identifier %q", id))
		}
	}
	return nil
}
