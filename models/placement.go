package models

import "encoding/json"

// Spec sources, in the order the normalizer tries them
const (
	SpecSourceZone        = "zone"
	SpecSourceCalibration = "calibration"
	SpecSourceImprint     = "imprint"
	SpecSourceClient      = "client"
)

// Trust levels attached to a derived print spec
const (
	SpecTrustServer = "server"
	SpecTrustClient = "client"
)

// DefaultAnchor is the anchor label offsets are measured from
const DefaultAnchor = "zone_origin"

// PlacementBox is an axis-aligned pixel bounding box drawn by the customer
type PlacementBox struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	RotationDeg float64 `json:"rotationDeg,omitempty"`
}

// UnmarshalJSON accepts the rotation as rotationDeg or as the shorter rot.
// rotationDeg wins when both are present.
func (b *PlacementBox) UnmarshalJSON(data []byte) error {
	var raw struct {
		X1          float64  `json:"x1"`
		Y1          float64  `json:"y1"`
		X2          float64  `json:"x2"`
		Y2          float64  `json:"y2"`
		RotationDeg *float64 `json:"rotationDeg"`
		Rot         *float64 `json:"rot"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = PlacementBox{X1: raw.X1, Y1: raw.Y1, X2: raw.X2, Y2: raw.Y2}
	switch {
	case raw.RotationDeg != nil:
		b.RotationDeg = *raw.RotationDeg
	case raw.Rot != nil:
		b.RotationDeg = *raw.Rot
	}
	return nil
}

// PrintSpec is the canonical physical description of a placed design
type PrintSpec struct {
	Unit        string  `json:"unit"`
	PxPerIn     float64 `json:"pxPerIn"`
	ArtWidthIn  float64 `json:"artWidthIn"`
	ArtHeightIn float64 `json:"artHeightIn"`
	OffsetXIn   float64 `json:"offsetXIn"`
	OffsetYIn   float64 `json:"offsetYIn"`
	RotationDeg int     `json:"rotationDeg"`
	Anchor      string  `json:"anchor"`
	ToleranceIn float64 `json:"toleranceIn"`
}

// Placement is the placement section of a design manifest
type Placement struct {
	Name        string        `json:"name,omitempty"` // zone name requested by the client
	Px          *PlacementBox `json:"px,omitempty"`
	View        string        `json:"view,omitempty"`
	Size        string        `json:"size,omitempty"`
	PxPerIn     *float64      `json:"pxPerIn,omitempty"`
	PrinterSpec *PrintSpec    `json:"printerSpec,omitempty"`
	SpecSource  string        `json:"specSource,omitempty"` // zone, calibration, imprint or client
	SpecTrust   string        `json:"specTrust,omitempty"`  // server or client
}

// EffectivePxPerIn returns the placement scale, falling back to the print spec's own scale
func (p *Placement) EffectivePxPerIn() float64 {
	if p == nil {
		return 0
	}
	if p.PxPerIn != nil && *p.PxPerIn > 0 {
		return *p.PxPerIn
	}
	if p.PrinterSpec != nil && p.PrinterSpec.PxPerIn > 0 {
		return p.PrinterSpec.PxPerIn
	}
	return 0
}

// HasPrintSpec reports whether the placement carries both a scale and a print spec
func (p *Placement) HasPrintSpec() bool {
	return p != nil && p.PrinterSpec != nil && p.EffectivePxPerIn() > 0
}
