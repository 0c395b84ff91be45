package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

// SyncService imports base product images for a style from a Google Drive folder
// into the catalog image prefix the preview renderer reads from.
type SyncService struct {
	drive  DriveServiceInterface
	store  storage.ObjectStore
	logger *zap.Logger
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// NewSyncService creates a new SyncService. drive may be nil, in which case
// every sync fails with an upstream error.
func NewSyncService(drive DriveServiceInterface, store storage.ObjectStore, logger *zap.Logger) *SyncService {
	return &SyncService{drive: drive, store: store, logger: logger}
}

// SyncStyleImages downloads every image of folderID, optimizes it and stores it
// under catalog-images/<styleId>/. Images already stored are skipped, so a sync
// can be re-run after a partial failure. Per-file failures are collected, not fatal.
func (s *SyncService) SyncStyleImages(ctx context.Context, styleID, folderID string) (*models.ImageSyncResult, error) {
	if !storage.ValidSegment(styleID) {
		return nil, apperr.InvalidInput("invalid styleId")
	}
	folderID = strings.TrimSpace(folderID)
	if folderID == "" || strings.ContainsAny(folderID, `'\`) {
		return nil, apperr.InvalidInput("invalid folderId")
	}
	if s.drive == nil {
		return nil, apperr.New(apperr.CodeUpstreamUnavailable, "google drive is not configured")
	}

	s.logger.Info("🔄 starting catalog image sync", zap.String("styleId", styleID), zap.String("folderId", folderID))

	files, err := s.drive.ListImages(ctx, folderID)
	if err != nil {
		return nil, apperr.Upstream("failed to list drive folder", err)
	}

	result := &models.ImageSyncResult{
		StyleID: styleID,
		Total:   len(files),
		Keys:    []string{},
		Errors:  []string{},
	}
	used := make(map[string]bool, len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := storage.CatalogImagesPrefix(styleID) + jpegName(f)
		if used[key] {
			s.logger.Info("⏭️  duplicate file name in folder", zap.String("key", key), zap.String("fileId", f.ID))
			result.Skipped++
			continue
		}
		used[key] = true

		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		if exists {
			s.logger.Info("⏭️  already imported", zap.String("key", key))
			result.Skipped++
			continue
		}

		data, _, err := s.drive.DownloadFile(ctx, f.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		optimized, size, err := OptimizeImage(data, maxBaseImageDim, baseImageQuality)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		if _, err := s.store.Put(ctx, key, optimized, storage.ContentTypeJPEG); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		s.logger.Info("✓ catalog image imported",
			zap.String("key", key),
			zap.Int("width", size.X),
			zap.Int("height", size.Y),
			zap.Int("bytes", len(optimized)))
		result.Imported++
		result.Keys = append(result.Keys, key)
	}

	s.logger.Info("🎉 catalog image sync completed",
		zap.String("styleId", styleID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Errors)),
		zap.Int("total", result.Total))
	return result, nil
}

// jpegName turns a Drive file name into the stored object name
func jpegName(f models.DriveFile) string {
	name := path.Base(strings.ReplaceAll(f.Name, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = f.ID
	}
	return name + ".jpg"
}
