package models

// ProductDetail is what the product-data collaborator knows about a product
type ProductDetail struct {
	ProductID       string            `json:"productId"`
	ImprintPhysical *PhysicalSize     `json:"imprintPhysical,omitempty"`
	Breakpoints     *PriceBreakpoints `json:"breakpoints,omitempty"`
}

// Product is a row of the relational product catalog
type Product struct {
	ID             int64    `json:"id"`
	ProductID      string   `json:"productId"`
	StyleID        string   `json:"styleId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	PxPerInDefault *float64 `json:"pxPerInDefault,omitempty"`
	Calibrated     bool     `json:"calibrated"`
}
