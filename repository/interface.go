package repository

import (
	"context"

	"directum-studio/models"
)

// CalibrationRepositoryInterface defines the contract for calibration storage
type CalibrationRepositoryInterface interface {
	Get(ctx context.Context, styleID string) (*models.CalibrationRecord, error)
	ResolveScale(ctx context.Context, styleID, view, size string) (float64, error)
	Merge(ctx context.Context, styleID string, upd models.CalibrationUpdate) (*models.CalibrationResponse, error)
}

// ZoneRepositoryInterface defines the contract for zone catalog storage
type ZoneRepositoryInterface interface {
	GetZones(ctx context.Context, styleID string) (*models.ZoneCatalog, error)
	ResolveZone(ctx context.Context, styleID, zoneName string) (*models.Zone, error)
	PutZones(ctx context.Context, styleID string, catalog models.ZoneCatalog) (string, error)
}

// ManifestRepositoryInterface defines the contract for design manifest and version index storage
type ManifestRepositoryInterface interface {
	PutManifest(ctx context.Context, domain, quoteID, versionID string, m *models.DesignManifest) (string, error)
	GetManifest(ctx context.Context, domain, quoteID, versionID, productID string) (*models.DesignManifest, error)
	ListManifests(ctx context.Context, domain, quoteID, versionID string) ([]models.DesignManifest, error)
	GetIndex(ctx context.Context, domain, quoteID, versionID string) (*models.VersionIndex, error)
	CreateIndex(ctx context.Context, domain, quoteID, versionID string, defaults IndexDefaults) (*models.VersionIndex, error)
	UpsertIndexEntry(ctx context.Context, domain, quoteID, versionID string, entry models.VersionEntry, defaults IndexDefaults) (*models.VersionIndex, error)
	ListVersions(ctx context.Context, domain, quoteID string) ([]models.VersionSummary, error)
	ListVersionsContainingProduct(ctx context.Context, domain, quoteID, productID string) ([]string, error)
}

// CalibrationMirror copies calibration updates into the relational catalog
type CalibrationMirror interface {
	MirrorCalibration(ctx context.Context, styleID string, upd models.CalibrationUpdate) error
}

// ProductRepositoryInterface defines the contract for relational product catalog operations
type ProductRepositoryInterface interface {
	CalibrationMirror
	GetByProductID(ctx context.Context, productID string) (*models.Product, error)
	StyleIDForProduct(ctx context.Context, productID string) (string, error)
	PriceTiers(ctx context.Context, productID string) ([]models.PriceTier, error)
}
