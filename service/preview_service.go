package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/placement"
	"directum-studio/repository"
	"directum-studio/storage"
)

// PreviewService renders a product image with the customer's logo composited at the saved placement
type PreviewService struct {
	manifests  repository.ManifestRepositoryInterface
	styles     *StyleResolver
	images     *BaseImageResolver
	logos      LogoSource
	store      storage.ObjectStore
	presignTTL time.Duration
	logger     *zap.Logger
}

// Ensure PreviewService implements PreviewServiceInterface
var _ PreviewServiceInterface = (*PreviewService)(nil)

// NewPreviewService creates a new PreviewService
func NewPreviewService(
	manifests repository.ManifestRepositoryInterface,
	styles *StyleResolver,
	images *BaseImageResolver,
	logos LogoSource,
	store storage.ObjectStore,
	presignTTL time.Duration,
	logger *zap.Logger,
) *PreviewService {
	return &PreviewService{
		manifests:  manifests,
		styles:     styles,
		images:     images,
		logos:      logos,
		store:      store,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// Render composites and stores the preview of one product's design.
// Nothing is written unless every step succeeds.
func (s *PreviewService) Render(ctx context.Context, domain, quoteID, versionID, productID string) (*models.PreviewArtifact, error) {
	manifest, err := s.manifests.GetManifest(ctx, domain, quoteID, versionID, productID)
	if err != nil {
		return nil, err
	}
	box := manifest.Placement.Px
	if err := placement.ValidateBox(box); err != nil {
		return nil, err
	}

	styleID := s.styles.StyleID(ctx, productID)
	if styleID == "" {
		styleID = productID
	}
	base, baseKey, err := s.images.Load(ctx, styleID)
	if err != nil {
		return nil, err
	}

	logoBytes, err := s.logos.Fetch(ctx, manifest.LogoRef)
	if err != nil {
		return nil, err
	}
	logo, _, err := image.Decode(bytes.NewReader(logoBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "logo is not a decodable image", err)
	}

	out := Composite(base, logo, *box)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	key := storage.PreviewKey(domain, quoteID, versionID, productID)
	if _, err := s.store.Put(ctx, key, buf.Bytes(), storage.ContentTypePNG); err != nil {
		return nil, apperr.Upstream("failed to store preview", err)
	}
	previewURL, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, apperr.Upstream("failed to presign preview", err)
	}

	bounds := base.Bounds()
	s.logger.Info("🖼️  preview rendered",
		zap.String("key", key),
		zap.String("base", baseKey),
		zap.Int("bytes", buf.Len()))
	return &models.PreviewArtifact{
		PreviewKey: key,
		PreviewURL: previewURL,
		Size:       buf.Len(),
		Base:       models.ImageSize{Width: bounds.Dx(), Height: bounds.Dy()},
	}, nil
}

// PreviewURL presigns an already rendered preview
func (s *PreviewService) PreviewURL(ctx context.Context, domain, quoteID, versionID, productID string) (string, error) {
	key := storage.PreviewKey(domain, quoteID, versionID, productID)
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", apperr.Upstream("failed to check preview", err)
	}
	if !ok {
		return "", apperr.NotFound("preview not rendered")
	}
	u, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return "", apperr.Upstream("failed to presign preview", err)
	}
	return u, nil
}

// Composite fits logo inside the placement box preserving aspect ratio,
// centers it on a transparent canvas the size of the box and alpha-blends the
// canvas onto base at the box's top-left corner.
func Composite(base, logo image.Image, box models.PlacementBox) *image.NRGBA {
	w := max(1, int(math.Round(box.X2-box.X1)))
	h := max(1, int(math.Round(box.Y2-box.Y1)))

	lb := logo.Bounds()
	canvas := imaging.New(w, h, color.NRGBA{})
	if lb.Dx() > 0 && lb.Dy() > 0 {
		ratio := math.Min(float64(w)/float64(lb.Dx()), float64(h)/float64(lb.Dy()))
		fw := max(1, int(math.Round(float64(lb.Dx())*ratio)))
		fh := max(1, int(math.Round(float64(lb.Dy())*ratio)))
		fitted := imaging.Resize(logo, fw, fh, imaging.Lanczos)
		canvas = imaging.Paste(canvas, fitted, image.Pt((w-fw)/2, (h-fh)/2))
	}

	at := image.Pt(int(math.Round(box.X1)), int(math.Round(box.Y1)))
	return imaging.Overlay(base, canvas, at, 1.0)
}
