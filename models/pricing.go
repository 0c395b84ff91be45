package models

// Decoration methods with method-specific matrix filters
const (
	MethodScreen     = "screen"
	MethodDTF        = "dtf"
	MethodEmbroidery = "embroidery"
)

// PricingMatrixRow is one row of the decoration pricing matrix (read-only reference data)
type PricingMatrixRow struct {
	Method       string  `json:"method"`
	QtyMin       *int    `json:"qtyMin,omitempty"`    // defaults to 1
	QtyMax       *int    `json:"qtyMax,omitempty"`    // nil means unbounded
	Colors       *int    `json:"colors,omitempty"`    // screen/dtf only
	StitchMax    *int    `json:"stitchMax,omitempty"` // embroidery only
	CostPerPiece float64 `json:"costPerPiece"`
	SetupFee     float64 `json:"setupFee"`
	Priority     int     `json:"priority,omitempty"` // tie-break for most_specific precedence
}

// Decoration is a requested decoration on a quote line
type Decoration struct {
	Method   string `json:"method"`
	Colors   int    `json:"colors,omitempty"`
	Stitches int    `json:"stitches,omitempty"`
}

// QuoteLineRequest is one line of a pricing request
type QuoteLineRequest struct {
	ProductID     string       `json:"productId"`
	ProdEID       string       `json:"prodEId,omitempty"` // catalog id used for blank cost lookup
	Qty           int          `json:"qty"`
	UnitBlankCost float64      `json:"unitBlankCost"`
	Decorations   []Decoration `json:"decorations"`
}

// PriceQuoteRequest represents the request body for POST /api/price/quote
type PriceQuoteRequest struct {
	Lines []QuoteLineRequest `json:"lines"`
}

// DecorationCost is the resolved cost of one decoration
type DecorationCost struct {
	Method   string  `json:"method"`
	CostEach float64 `json:"costEach"`
	Setup    float64 `json:"setup"`
	Matched  bool    `json:"matched"`            // false when no matrix row matched (priced at zero)
	RowIndex *int    `json:"rowIndex,omitempty"` // matrix position of the selected row
}

// QuoteLine is a priced quote line
type QuoteLine struct {
	ProductID     string           `json:"productId"`
	Qty           int              `json:"qty"`
	UnitBlankCost float64          `json:"unitBlankCost"`
	DecorUnit     float64          `json:"decorUnit"`
	Unit          float64          `json:"unit"`
	SetupFees     float64          `json:"setupFees"`
	Extended      float64          `json:"extended"`
	Decorations   []DecorationCost `json:"decorations"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// PriceBreakpoints is a catalog net-price table: Net[i] applies from Qty[i] units upwards
type PriceBreakpoints struct {
	Qty []int     `json:"qty"`
	Net []float64 `json:"net"`
}

// PriceTier is a simple product tier (min/max quantity and unit price)
type PriceTier struct {
	MinQty int     `json:"minQty"`
	MaxQty *int    `json:"maxQty"`
	Price  float64 `json:"price"`
}

// CalculatePriceRequest represents the request body for POST /api/calculate-price
type CalculatePriceRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CalculatePriceResponse is the tier price for a product and quantity
type CalculatePriceResponse struct {
	ProductID   string     `json:"productId"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	TotalPrice  float64    `json:"totalPrice"`
	Savings     float64    `json:"savings"`
	PricingTier *PriceTier `json:"pricingTier,omitempty"`
}
