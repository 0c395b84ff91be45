package placement

import (
	"encoding/json"
	"math"
	"testing"

	"directum-studio/apperr"
	"directum-studio/models"
)

func testZone() models.Zone {
	return models.Zone{
		Name:     "front",
		RectPx:   models.Rect{X: 0, Y: 0, W: 600, H: 800},
		Physical: models.PhysicalSize{WIn: 12, HIn: 16},
	}
}

func TestDeriveScale(t *testing.T) {
	tests := []struct {
		name     string
		rect     models.Rect
		physical models.PhysicalSize
		want     float64
		wantErr  bool
	}{
		{"both axes agree", models.Rect{W: 600, H: 800}, models.PhysicalSize{WIn: 12, HIn: 16}, 50, false},
		{"smaller axis wins", models.Rect{W: 600, H: 800}, models.PhysicalSize{WIn: 12, HIn: 10}, 50, false},
		{"width only", models.Rect{W: 600, H: 800}, models.PhysicalSize{WIn: 12}, 50, false},
		{"height only", models.Rect{W: 600, H: 800}, models.PhysicalSize{HIn: 10}, 80, false},
		{"floored at one", models.Rect{W: 5, H: 5}, models.PhysicalSize{WIn: 10, HIn: 10}, 1, false},
		{"no usable dimension", models.Rect{W: 600, H: 800}, models.PhysicalSize{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveScale(tt.rect, tt.physical)
			if tt.wantErr {
				if !apperr.IsCode(err, apperr.CodeInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DeriveScale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromZoneEndToEnd(t *testing.T) {
	box := models.PlacementBox{X1: 100, Y1: 100, X2: 250, Y2: 250}

	spec, err := FromZone(box, testZone(), "")
	if err != nil {
		t.Fatalf("FromZone: %v", err)
	}

	if spec.PxPerIn != 50 {
		t.Errorf("pxPerIn = %v, want 50", spec.PxPerIn)
	}
	if spec.ArtWidthIn != 3 || spec.ArtHeightIn != 3 {
		t.Errorf("art = %vx%v, want 3x3", spec.ArtWidthIn, spec.ArtHeightIn)
	}
	if spec.OffsetXIn != 2 || spec.OffsetYIn != 2 {
		t.Errorf("offset = %v,%v, want 2,2", spec.OffsetXIn, spec.OffsetYIn)
	}
	if spec.Unit != "in" || spec.Anchor != models.DefaultAnchor || spec.ToleranceIn != 0.125 {
		t.Errorf("unexpected fixed fields: %+v", spec)
	}
}

func TestFromZoneOffsetsRelativeToZoneOrigin(t *testing.T) {
	zone := testZone()
	zone.RectPx.X = 50
	zone.RectPx.Y = 100

	spec, err := FromZone(models.PlacementBox{X1: 100, Y1: 200, X2: 200, Y2: 300}, zone, "")
	if err != nil {
		t.Fatalf("FromZone: %v", err)
	}
	if spec.OffsetXIn != 1 || spec.OffsetYIn != 2 {
		t.Fatalf("offset = %v,%v, want 1,2", spec.OffsetXIn, spec.OffsetYIn)
	}
}

func TestFromZoneRejectsOversizedArt(t *testing.T) {
	box := models.PlacementBox{X1: 0, Y1: 0, X2: 700, Y2: 100}

	_, err := FromZone(box, testZone(), "")
	if !apperr.IsCode(err, apperr.CodeBoundsViolation) {
		t.Fatalf("expected bounds violation, got %v", err)
	}
	md := apperr.MetadataOf(err)
	art, ok := md["art"].(models.PhysicalSize)
	if !ok || art.WIn != 14 {
		t.Fatalf("expected art width 14 in metadata, got %#v", md)
	}
}

func TestFromZoneRejectsInvalidBox(t *testing.T) {
	_, err := FromZone(models.PlacementBox{X1: 10, Y1: 10, X2: 10, Y2: 50}, testZone(), "")
	if !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestFromZoneRejectsMalformedZone(t *testing.T) {
	zone := testZone()
	zone.RectPx.W = 0

	_, err := FromZone(models.PlacementBox{X1: 0, Y1: 0, X2: 10, Y2: 10}, zone, "")
	if !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestToPrintSpecRoundsRotation(t *testing.T) {
	spec := ToPrintSpec(models.PlacementBox{X1: 0, Y1: 0, X2: 10, Y2: 10, RotationDeg: 14.6}, Point{}, 10, "")
	if spec.RotationDeg != 15 {
		t.Fatalf("rotation = %d, want 15", spec.RotationDeg)
	}
}

func TestRoundTripWithinRounding(t *testing.T) {
	box := models.PlacementBox{X1: 123.4, Y1: 56.7, X2: 345.6, Y2: 278.9}
	origin := Point{X: 20, Y: 30}
	const pxPerIn = 37.0

	back := ToPixels(ToPrintSpec(box, origin, pxPerIn, ""), origin)

	// each inch value is rounded to 0.001, x2/y2 accumulate two of them
	tolerance := 2 * 0.0005 * pxPerIn
	for _, pair := range [][2]float64{{box.X1, back.X1}, {box.Y1, back.Y1}, {box.X2, back.X2}, {box.Y2, back.Y2}} {
		if math.Abs(pair[0]-pair[1]) > tolerance {
			t.Fatalf("round trip drifted: %+v -> %+v", box, back)
		}
	}
}

func TestCheckZoneBoundsUnboundedAxis(t *testing.T) {
	zone := testZone()
	zone.Physical.HIn = 0

	spec := models.PrintSpec{ArtWidthIn: 5, ArtHeightIn: 100}
	if err := CheckZoneBounds(spec, zone); err != nil {
		t.Fatalf("height should be unbounded, got %v", err)
	}
}

func TestFromZoneCarriesShortRotationKey(t *testing.T) {
	var box models.PlacementBox
	if err := json.Unmarshal([]byte(`{"x1":100,"y1":100,"x2":250,"y2":250,"rot":15}`), &box); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	spec, err := FromZone(box, testZone(), "")
	if err != nil {
		t.Fatalf("FromZone: %v", err)
	}
	if spec.RotationDeg != 15 {
		t.Fatalf("rotation = %d, want 15", spec.RotationDeg)
	}
}
