package service

import (
	"context"

	"directum-studio/models"
)

// PreviewServiceInterface defines the contract for preview rendering
type PreviewServiceInterface interface {
	Render(ctx context.Context, domain, quoteID, versionID, productID string) (*models.PreviewArtifact, error)
	PreviewURL(ctx context.Context, domain, quoteID, versionID, productID string) (string, error)
}
