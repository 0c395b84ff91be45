package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

var (
	imageExtPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|webp)$`)
	frontPattern    = regexp.MustCompile(`front`)
	productPattern  = regexp.MustCompile(`product|color`)
	sidePattern     = regexp.MustCompile(`left|right`)
	backPattern     = regexp.MustCompile(`back`)
)

// RankImageKey orders candidate base images: front, product/color shots,
// side views, back, then everything else.
func RankImageKey(key string) int {
	k := strings.ToLower(key)
	switch {
	case frontPattern.MatchString(k):
		return 0
	case productPattern.MatchString(k):
		return 1
	case sidePattern.MatchString(k):
		return 2
	case backPattern.MatchString(k):
		return 3
	}
	return 9
}

// BaseImageResolver finds the base product image of a style
type BaseImageResolver struct {
	store  storage.ObjectStore
	logger *zap.Logger
}

// NewBaseImageResolver creates a new BaseImageResolver
func NewBaseImageResolver(store storage.ObjectStore, logger *zap.Logger) *BaseImageResolver {
	return &BaseImageResolver{store: store, logger: logger}
}

// PickKey returns the best-ranked image key under the style's image prefix
func (r *BaseImageResolver) PickKey(ctx context.Context, styleID string) (string, error) {
	keys, err := r.store.List(ctx, storage.CatalogImagesPrefix(styleID))
	if err != nil {
		return "", apperr.Upstream("failed to list catalog images", err)
	}

	var candidates []string
	for _, k := range keys {
		if imageExtPattern.MatchString(k) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", apperr.NotFound(fmt.Sprintf("no base image for style %s", styleID))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return RankImageKey(candidates[i]) < RankImageKey(candidates[j])
	})
	return candidates[0], nil
}

// Load returns the decoded base image of a style
func (r *BaseImageResolver) Load(ctx context.Context, styleID string) (image.Image, string, error) {
	key, err := r.PickKey(ctx, styleID)
	if err != nil {
		return nil, "", err
	}
	obj, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, "", apperr.Upstream("failed to read base image", err)
	}
	img, format, err := image.Decode(bytes.NewReader(obj.Body))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeUpstreamUnavailable, "base image is not decodable", err)
	}
	r.logger.Debug("📸 base image decoded", zap.String("key", key), zap.String("format", format))
	return img, key, nil
}

// BaseImageSize returns the pixel dimensions of the style's base image
// without decoding the full image.
func (r *BaseImageResolver) BaseImageSize(ctx context.Context, styleID string) (models.ImageSize, error) {
	key, err := r.PickKey(ctx, styleID)
	if err != nil {
		return models.ImageSize{}, err
	}
	obj, err := r.store.Get(ctx, key)
	if err != nil {
		return models.ImageSize{}, apperr.Upstream("failed to read base image", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(obj.Body))
	if err != nil {
		return models.ImageSize{}, apperr.Wrap(apperr.CodeUpstreamUnavailable, "base image is not decodable", err)
	}
	return models.ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}
