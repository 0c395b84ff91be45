package service

import (
	"context"
	"regexp"

	"go.uber.org/zap"
)

var styleIDPrefix = regexp.MustCompile(`^[A-Za-z0-9_-]+`)

// StyleLookup resolves a product's style from the relational catalog
type StyleLookup interface {
	StyleIDForProduct(ctx context.Context, productID string) (string, error)
}

// StyleResolver maps product ids to catalog style ids
type StyleResolver struct {
	products StyleLookup
	logger   *zap.Logger
}

// NewStyleResolver creates a StyleResolver. products may be nil.
func NewStyleResolver(products StyleLookup, logger *zap.Logger) *StyleResolver {
	return &StyleResolver{products: products, logger: logger}
}

// StyleID returns the catalog style for productID. When the relational catalog
// has no answer the leading run of [A-Za-z0-9_-] of the product id is used,
// so "PC61.NAVY" resolves to "PC61".
func (r *StyleResolver) StyleID(ctx context.Context, productID string) string {
	if r.products != nil {
		styleID, err := r.products.StyleIDForProduct(ctx, productID)
		if err == nil && styleID != "" {
			return styleID
		}
		if err != nil {
			r.logger.Debug("style lookup fell back to product id", zap.String("productId", productID), zap.Error(err))
		}
	}
	return StyleFromProductID(productID)
}

// StyleFromProductID derives a style id from a product id
func StyleFromProductID(productID string) string {
	return styleIDPrefix.FindString(productID)
}
