package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"directum-studio/models"
)

// maxDriveFileBytes bounds logo downloads
const maxDriveFileBytes = 25 << 20

var driveImageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// DriveService downloads customer logos and catalog photos shared through Google Drive
type DriveService struct {
	client *drive.Service
	logger *zap.Logger
}

// NewDriveService creates a new DriveService instance.
// credentialsPath should be the path to the Service Account JSON file.
func NewDriveService(ctx context.Context, credentialsPath string, logger *zap.Logger) (*DriveService, error) {
	client, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveService{client: client, logger: logger}, nil
}

// DownloadFile returns the content of a Drive file
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	meta, err := ds.client.Files.Get(fileID).
		Fields("id, name, mimeType, size").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get drive file %s: %w", fileID, err)
	}
	if meta.Size > maxDriveFileBytes {
		return nil, "", fmt.Errorf("drive file %s is too large (%d bytes)", fileID, meta.Size)
	}

	resp, err := ds.client.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, "", fmt.Errorf("failed to download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDriveFileBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read drive file %s: %w", fileID, err)
	}
	if len(data) > maxDriveFileBytes {
		return nil, "", fmt.Errorf("drive file %s is too large", fileID)
	}

	ds.logger.Info("✓ file downloaded from drive",
		zap.String("fileId", fileID),
		zap.String("name", meta.Name),
		zap.Int("bytes", len(data)))
	return data, meta.MimeType, nil
}

// ListImages lists the image files directly inside a Drive folder
func (ds *DriveService) ListImages(ctx context.Context, folderID string) ([]models.DriveFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var files []models.DriveFile
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		for _, f := range r.Files {
			if !driveImageMimeTypes[f.MimeType] {
				continue
			}
			files = append(files, models.DriveFile{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	ds.logger.Info("📦 drive folder listed", zap.String("folderId", folderID), zap.Int("images", len(files)))
	return files, nil
}
