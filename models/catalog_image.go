package models

// DriveFile is an image file listed from a Google Drive folder
type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// ImageSyncRequest represents the request body for POST /api/admin/catalog-images/:styleId/sync
type ImageSyncRequest struct {
	FolderID string `json:"folderId"`
}

// ImageSyncResult reports a catalog image import.
// Skipped counts images whose key already exists or repeats within the folder.
type ImageSyncResult struct {
	StyleID  string   `json:"styleId"`
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Keys     []string `json:"keys"`
	Errors   []string `json:"errors"`
}
