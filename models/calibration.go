package models

// CalibrationRecord is the per-style scale document stored at catalog/<styleId>/scales.json
type CalibrationRecord struct {
	DefaultPxPerIn *float64             `json:"defaultPxPerIn,omitempty"`
	Sizes          map[string]float64   `json:"sizes,omitempty"` // size -> pxPerIn
	Views          map[string]ViewScale `json:"views,omitempty"` // view -> {pxPerIn}
}

// ViewScale holds a per-view calibration override
type ViewScale struct {
	PxPerIn float64 `json:"pxPerIn"`
}

// CalibrationUpdate represents the request body for POST /api/admin/scales/:styleId
type CalibrationUpdate struct {
	DefaultPxPerIn float64 `json:"defaultPxPerIn"`
	Size           string  `json:"size"`
	View           string  `json:"view"`
	PxPerIn        float64 `json:"pxPerIn"`
}

// MirrorResult reports the outcome of syncing a calibration into the relational catalog
type MirrorResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CalibrationResponse is returned after a calibration merge
type CalibrationResponse struct {
	Key    string            `json:"key"`
	Data   CalibrationRecord `json:"data"`
	Mirror MirrorResult      `json:"mirror"`
}
