package service

import (
	"context"

	"directum-studio/models"
)

// SyncServiceInterface defines the contract for catalog image synchronization
type SyncServiceInterface interface {
	// SyncStyleImages imports a Drive folder's images as the style's base images
	SyncStyleImages(ctx context.Context, styleID, folderID string) (*models.ImageSyncResult, error)
}
