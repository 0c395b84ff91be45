package service

import (
	"context"

	"directum-studio/models"
)

// DesignServiceInterface defines the contract for design manifest operations
type DesignServiceInterface interface {
	PutManifest(ctx context.Context, in PutManifestInput) (*models.SaveDesignResponse, error)
	GetManifest(ctx context.Context, email, quoteID, versionID, productID string) (*models.DesignManifest, error)
	GetVersionIndex(ctx context.Context, email, quoteID, versionID string) (*models.VersionIndex, error)
	CreateVersion(ctx context.Context, quoteID string, req models.CreateVersionRequest) (*models.VersionSummary, error)
	ListVersions(ctx context.Context, email, quoteID string) ([]models.VersionSummary, error)
	ListVersionsContainingProduct(ctx context.Context, email, quoteID, productID string) ([]string, error)
}
