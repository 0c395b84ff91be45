package models

import "time"

// DesignManifest is one product's design placement within one quote version.
// Identity is (companyDomain, quoteId, versionId, productId); the key carries it.
type DesignManifest struct {
	ProductID string    `json:"productId"`
	LogoRef   string    `json:"logoRef"`
	Placement Placement `json:"placement"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VersionEntry lists a product that has a design in a version
type VersionEntry struct {
	ProductID string    `json:"productId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VersionIndex is the per (quote, version) document listing designed products
type VersionIndex struct {
	Name      string         `json:"name"`
	CreatedBy string         `json:"createdBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Products  []VersionEntry `json:"products"`
}

// VersionSummary is a listed version of a quote
type VersionSummary struct {
	VersionID    string    `json:"versionId"`
	Name         string    `json:"name"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ProductCount int       `json:"productCount"`
}

// SaveDesignRequest represents the request body for
// POST /api/quotes/:quoteId/versions/:versionId/designs/:productId
type SaveDesignRequest struct {
	Email     string    `json:"email"`
	LogoRef   string    `json:"logoRef"`
	Name      string    `json:"name"` // version display name, used when the index is created
	Placement Placement `json:"placement"`
}

// SaveDesignResponse is returned after a manifest write
type SaveDesignResponse struct {
	DesignKey string         `json:"designKey"`
	IndexKey  string         `json:"indexKey"`
	Design    DesignManifest `json:"design"`
}

// CreateVersionRequest represents the request body for POST /api/quotes/:quoteId/versions
type CreateVersionRequest struct {
	Email     string `json:"email"`
	VersionID string `json:"versionId"`
	Name      string `json:"name"`
}

// PreviewArtifact describes a rendered preview image
type PreviewArtifact struct {
	PreviewKey string    `json:"previewKey"`
	PreviewURL string    `json:"previewUrl"`
	Size       int       `json:"size"`
	Base       ImageSize `json:"base"`
}

// ImageSize is a pixel width/height pair
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
