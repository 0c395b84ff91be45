package storage

import (
	"fmt"
	"path"
	"strings"
)

// ValidSegment reports whether s can be used as a single key path segment
func ValidSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\")
}

func versionRoot(domain, quoteID, versionID string) string {
	return fmt.Sprintf("company/%s/quotes/%s/versions/%s", domain, quoteID, versionID)
}

// DesignKey is where a product's design manifest lives
func DesignKey(domain, quoteID, versionID, productID string) string {
	return fmt.Sprintf("%s/designs/%s.json", versionRoot(domain, quoteID, versionID), productID)
}

// DesignsPrefix lists every manifest of a version
func DesignsPrefix(domain, quoteID, versionID string) string {
	return versionRoot(domain, quoteID, versionID) + "/designs/"
}

// IndexKey is the per-version index document
func IndexKey(domain, quoteID, versionID string) string {
	return versionRoot(domain, quoteID, versionID) + "/index.json"
}

// PreviewKey is where a rendered preview is stored
func PreviewKey(domain, quoteID, versionID, productID string) string {
	return fmt.Sprintf("%s/previews/%s.png", versionRoot(domain, quoteID, versionID), productID)
}

// VersionsPrefix is the parent of all versions of a quote
func VersionsPrefix(domain, quoteID string) string {
	return fmt.Sprintf("company/%s/quotes/%s/versions/", domain, quoteID)
}

// LogoKey is the upload location of a customer logo
func LogoKey(domain, logoID, filename string) string {
	return fmt.Sprintf("company/%s/logos/%s/%s", domain, logoID, path.Base(filename))
}

// LogosPrefix holds every uploaded logo of a company
func LogosPrefix(domain string) string {
	return fmt.Sprintf("company/%s/logos/", domain)
}

// ZonesKey is the published zone catalog of a style
func ZonesKey(styleID string) string {
	return fmt.Sprintf("catalog/%s/zones.json", styleID)
}

// ScalesKey is the calibration record of a style
func ScalesKey(styleID string) string {
	return fmt.Sprintf("catalog/%s/scales.json", styleID)
}

// CatalogImagesPrefix holds the base product images of a style
func CatalogImagesPrefix(styleID string) string {
	return fmt.Sprintf("catalog-images/%s/", styleID)
}

// LastSegment returns the final non-empty segment of a key or prefix
func LastSegment(key string) string {
	return path.Base(strings.TrimSuffix(key, "/"))
}
