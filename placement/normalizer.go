// Package placement converts on-screen pixel placements into physical print
// specifications. Everything in this file is pure; provider lookups live in chain.go.
package placement

import (
	"fmt"
	"math"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/utils"
)

const (
	// ToleranceIn is the fixed production tolerance attached to every print spec
	ToleranceIn = 0.125
	// MinPxPerIn is the floor applied to every derived scale
	MinPxPerIn = 1.0
)

// Point is a pixel coordinate used as the origin for offsets
type Point struct {
	X float64
	Y float64
}

// ValidateBox checks that a placement box is usable: x2 > x1 and y2 > y1.
func ValidateBox(box *models.PlacementBox) error {
	if box == nil {
		return apperr.InvalidInput("placement.px is required")
	}
	if !finite(box.X1, box.Y1, box.X2, box.Y2, box.RotationDeg) {
		return apperr.InvalidInput("placement.px has non-numeric coordinates")
	}
	if box.X2 <= box.X1 || box.Y2 <= box.Y1 {
		return apperr.WithMetadata(apperr.CodeInvalidInput, "placement.px must satisfy x2>x1 and y2>y1",
			map[string]any{"px": *box})
	}
	return nil
}

// ValidateZone checks that a zone has a positive pixel rect and at least one positive physical dimension.
func ValidateZone(zone models.Zone) error {
	if !finite(zone.RectPx.X, zone.RectPx.Y, zone.RectPx.W, zone.RectPx.H, zone.Physical.WIn, zone.Physical.HIn) {
		return apperr.InvalidInput(fmt.Sprintf("zone %q has non-numeric dimensions", zone.Name))
	}
	if zone.RectPx.W <= 0 || zone.RectPx.H <= 0 {
		return apperr.InvalidInput(fmt.Sprintf("zone %q rectPx must have positive w and h", zone.Name))
	}
	if zone.Physical.WIn <= 0 && zone.Physical.HIn <= 0 {
		return apperr.InvalidInput(fmt.Sprintf("zone %q physical size must be positive", zone.Name))
	}
	return nil
}

// DeriveScale computes pixels-per-inch from a pixel rect and its physical size.
// When both axes yield a positive scale the smaller one wins, so artwork is never
// declared smaller than it prints. The result is floored at MinPxPerIn.
func DeriveScale(rect models.Rect, physical models.PhysicalSize) (float64, error) {
	var sx, sy float64
	if physical.WIn > 0 {
		sx = rect.W / physical.WIn
	}
	if physical.HIn > 0 {
		sy = rect.H / physical.HIn
	}

	var scale float64
	switch {
	case sx > 0 && sy > 0:
		scale = math.Min(sx, sy)
	case sx > 0:
		scale = sx
	case sy > 0:
		scale = sy
	default:
		return 0, apperr.WithMetadata(apperr.CodeInvalidInput, "cannot derive scale from non-positive dimensions",
			map[string]any{"rectPx": rect, "physical": physical})
	}
	return math.Max(MinPxPerIn, scale), nil
}

// ToPrintSpec converts a pixel box to inches relative to origin.
func ToPrintSpec(box models.PlacementBox, origin Point, pxPerIn float64, anchor string) models.PrintSpec {
	if anchor == "" {
		anchor = models.DefaultAnchor
	}
	return models.PrintSpec{
		Unit:        "in",
		PxPerIn:     pxPerIn,
		ArtWidthIn:  utils.Round3((box.X2 - box.X1) / pxPerIn),
		ArtHeightIn: utils.Round3((box.Y2 - box.Y1) / pxPerIn),
		OffsetXIn:   utils.Round3((box.X1 - origin.X) / pxPerIn),
		OffsetYIn:   utils.Round3((box.Y1 - origin.Y) / pxPerIn),
		RotationDeg: int(math.Round(box.RotationDeg)),
		Anchor:      anchor,
		ToleranceIn: ToleranceIn,
	}
}

// ToPixels maps a print spec back into pixel space relative to origin.
func ToPixels(spec models.PrintSpec, origin Point) models.PlacementBox {
	x1 := origin.X + spec.OffsetXIn*spec.PxPerIn
	y1 := origin.Y + spec.OffsetYIn*spec.PxPerIn
	return models.PlacementBox{
		X1:          x1,
		Y1:          y1,
		X2:          x1 + spec.ArtWidthIn*spec.PxPerIn,
		Y2:          y1 + spec.ArtHeightIn*spec.PxPerIn,
		RotationDeg: float64(spec.RotationDeg),
	}
}

// FromZone builds a print spec using a published zone as both scale and origin.
// Art larger than the zone's physical size is rejected, never clamped.
func FromZone(box models.PlacementBox, zone models.Zone, anchor string) (models.PrintSpec, error) {
	if err := ValidateBox(&box); err != nil {
		return models.PrintSpec{}, err
	}
	if err := ValidateZone(zone); err != nil {
		return models.PrintSpec{}, err
	}

	pxPerIn, err := DeriveScale(zone.RectPx, zone.Physical)
	if err != nil {
		return models.PrintSpec{}, err
	}

	spec := ToPrintSpec(box, Point{X: zone.RectPx.X, Y: zone.RectPx.Y}, pxPerIn, anchor)
	if err := CheckZoneBounds(spec, zone); err != nil {
		return models.PrintSpec{}, err
	}
	return spec, nil
}

// CheckZoneBounds returns a BoundsViolation when the art exceeds the zone's physical size.
// A non-positive physical dimension is unbounded on that axis.
func CheckZoneBounds(spec models.PrintSpec, zone models.Zone) error {
	tooWide := zone.Physical.WIn > 0 && spec.ArtWidthIn > zone.Physical.WIn
	tooTall := zone.Physical.HIn > 0 && spec.ArtHeightIn > zone.Physical.HIn
	if !tooWide && !tooTall {
		return nil
	}
	return apperr.WithMetadata(apperr.CodeBoundsViolation, "art-exceeds-physical-bounds", map[string]any{
		"art":      models.PhysicalSize{WIn: spec.ArtWidthIn, HIn: spec.ArtHeightIn},
		"physical": zone.Physical,
		"zone":     zone.Name,
	})
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
