package models

// Rect is a pixel rectangle with its origin at the top-left corner
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PhysicalSize is a real-world size in inches
type PhysicalSize struct {
	WIn float64 `json:"w_in"`
	HIn float64 `json:"h_in"`
}

// Zone is a named printable region on a product image
type Zone struct {
	Name     string       `json:"name"`
	RectPx   Rect         `json:"rectPx"`
	Physical PhysicalSize `json:"physical"`
}

// ZoneCatalog is the per-style document stored at catalog/<styleId>/zones.json
type ZoneCatalog struct {
	Zones []Zone `json:"zones"`
}
