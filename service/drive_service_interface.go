package service

import (
	"context"

	"directum-studio/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, string, error)
	ListImages(ctx context.Context, folderID string) ([]models.DriveFile, error)
}
