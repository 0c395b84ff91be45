package placement

import (
	"context"
	"math"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
)

// Input is what the chain knows about a placement submission
type Input struct {
	StyleID   string
	ProductID string
	Placement models.Placement
}

// Derivation is a successful scale resolution
type Derivation struct {
	Source  string
	Trust   string
	PxPerIn float64
	Spec    models.PrintSpec
}

// ScaleProvider is one step of the fallback chain. Resolve returns (nil, nil)
// when the provider has nothing to offer for this input.
type ScaleProvider struct {
	Name    string
	Resolve func(ctx context.Context, in Input) (*Derivation, error)
}

// ZoneResolver looks up a published zone for a style
type ZoneResolver interface {
	ResolveZone(ctx context.Context, styleID, zoneName string) (*models.Zone, error)
}

// ScaleResolver looks up a stored calibration scale for a style
type ScaleResolver interface {
	ResolveScale(ctx context.Context, styleID, view, size string) (float64, error)
}

// ImprintSource returns the physical imprint area of a product from product data
type ImprintSource interface {
	ImprintPhysical(ctx context.Context, productID string) (*models.PhysicalSize, error)
}

// BaseImageSizer returns the pixel size of a style's base product image
type BaseImageSizer interface {
	BaseImageSize(ctx context.Context, styleID string) (models.ImageSize, error)
}

// Chain tries providers in order until one yields a scale
type Chain struct {
	providers []ScaleProvider
	logger    *zap.Logger
}

// NewChain creates a chain over the given providers, tried in argument order
func NewChain(logger *zap.Logger, providers ...ScaleProvider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// NewDefaultChain wires zone -> calibration -> imprint -> client
func NewDefaultChain(logger *zap.Logger, zones ZoneResolver, scales ScaleResolver, imprints ImprintSource, images BaseImageSizer) *Chain {
	return NewChain(logger,
		ZoneProvider(zones),
		CalibrationProvider(scales),
		ImprintProvider(imprints, images),
		ClientProvider(),
	)
}

// Providers returns provider names in evaluation order
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name)
	}
	return names
}

// Resolve walks the chain. It returns (nil, nil) when every provider is exhausted.
// InvalidInput and BoundsViolation abort the walk; any other provider error is
// logged and the next provider is tried.
func (c *Chain) Resolve(ctx context.Context, in Input) (*Derivation, error) {
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := p.Resolve(ctx, in)
		if err != nil {
			if apperr.IsCode(err, apperr.CodeInvalidInput) || apperr.IsCode(err, apperr.CodeBoundsViolation) {
				return nil, err
			}
			c.logger.Warn("⏭️  scale provider unusable, trying next",
				zap.String("provider", p.Name),
				zap.String("productId", in.ProductID),
				zap.String("styleId", in.StyleID),
				zap.Error(err))
			continue
		}
		if d == nil {
			continue
		}

		c.logger.Debug("📐 scale resolved",
			zap.String("provider", p.Name),
			zap.String("productId", in.ProductID),
			zap.Float64("pxPerIn", d.PxPerIn))
		return d, nil
	}

	c.logger.Warn("⚠️  no scale source available, manifest will carry no print spec",
		zap.String("productId", in.ProductID),
		zap.String("styleId", in.StyleID))
	return nil, nil
}

// ZoneProvider derives scale and origin from the style's published zone.
func ZoneProvider(zones ZoneResolver) ScaleProvider {
	return ScaleProvider{
		Name: models.SpecSourceZone,
		Resolve: func(ctx context.Context, in Input) (*Derivation, error) {
			if zones == nil || in.StyleID == "" || in.Placement.Px == nil {
				return nil, nil
			}
			zone, err := zones.ResolveZone(ctx, in.StyleID, in.Placement.Name)
			if err != nil {
				return nil, err
			}
			spec, err := FromZone(*in.Placement.Px, *zone, models.DefaultAnchor)
			if err != nil {
				return nil, err
			}
			return &Derivation{Source: models.SpecSourceZone, Trust: models.SpecTrustServer, PxPerIn: spec.PxPerIn, Spec: spec}, nil
		},
	}
}

// CalibrationProvider uses the stored per-view/per-size/default scale with the
// pixel space origin (0,0) as reference.
func CalibrationProvider(scales ScaleResolver) ScaleProvider {
	return ScaleProvider{
		Name: models.SpecSourceCalibration,
		Resolve: func(ctx context.Context, in Input) (*Derivation, error) {
			if scales == nil || in.StyleID == "" || in.Placement.Px == nil {
				return nil, nil
			}
			scale, err := scales.ResolveScale(ctx, in.StyleID, in.Placement.View, in.Placement.Size)
			if err != nil {
				return nil, err
			}
			pxPerIn := math.Max(MinPxPerIn, scale)
			spec := ToPrintSpec(*in.Placement.Px, Point{}, pxPerIn, models.DefaultAnchor)
			return &Derivation{Source: models.SpecSourceCalibration, Trust: models.SpecTrustServer, PxPerIn: pxPerIn, Spec: spec}, nil
		},
	}
}

// ImprintProvider combines the product-data imprint size with the base image
// dimensions, treating the whole image as the reference rect.
func ImprintProvider(imprints ImprintSource, images BaseImageSizer) ScaleProvider {
	return ScaleProvider{
		Name: models.SpecSourceImprint,
		Resolve: func(ctx context.Context, in Input) (*Derivation, error) {
			if imprints == nil || images == nil || in.StyleID == "" || in.Placement.Px == nil {
				return nil, nil
			}
			size, err := images.BaseImageSize(ctx, in.StyleID)
			if err != nil {
				return nil, err
			}
			imprint, err := imprints.ImprintPhysical(ctx, in.ProductID)
			if err != nil {
				return nil, err
			}
			if imprint == nil {
				return nil, nil
			}

			rect := models.Rect{W: float64(size.Width), H: float64(size.Height)}
			pxPerIn, err := DeriveScale(rect, *imprint)
			if err != nil {
				// bad product data is not the customer's fault
				return nil, apperr.Upstream("imprint data unusable", err)
			}
			spec := ToPrintSpec(*in.Placement.Px, Point{}, pxPerIn, models.DefaultAnchor)
			return &Derivation{Source: models.SpecSourceImprint, Trust: models.SpecTrustServer, PxPerIn: pxPerIn, Spec: spec}, nil
		},
	}
}

// ClientProvider accepts a pxPerIn/printerSpec pair supplied in the request.
// It bypasses server-side derivation, so the result is tagged client trust.
func ClientProvider() ScaleProvider {
	return ScaleProvider{
		Name: models.SpecSourceClient,
		Resolve: func(_ context.Context, in Input) (*Derivation, error) {
			p := in.Placement
			pxPerIn := p.EffectivePxPerIn()
			if p.PrinterSpec == nil || pxPerIn < MinPxPerIn {
				return nil, nil
			}
			spec := *p.PrinterSpec
			if spec.PxPerIn <= 0 {
				spec.PxPerIn = pxPerIn
			}
			if spec.Unit == "" {
				spec.Unit = "in"
			}
			return &Derivation{Source: models.SpecSourceClient, Trust: models.SpecTrustClient, PxPerIn: pxPerIn, Spec: spec}, nil
		},
	}
}
