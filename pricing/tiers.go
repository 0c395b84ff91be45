package pricing

import (
	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/utils"
)

func intPtr(v int) *int { return &v }

// FallbackTiers apply to products without their own tier table
var FallbackTiers = []models.PriceTier{
	{MinQty: 1, MaxQty: intPtr(9), Price: 29.99},
	{MinQty: 10, MaxQty: intPtr(49), Price: 26.99},
	{MinQty: 50, MaxQty: intPtr(99), Price: 23.99},
	{MinQty: 100, MaxQty: nil, Price: 19.99},
}

// TierPrice prices qty units from a simple tier table. Quantities below one
// count as one; when no tier covers qty the first tier applies. Savings are
// measured against the first tier's unit price.
func TierPrice(productID string, tiers []models.PriceTier, qty int) (*models.CalculatePriceResponse, error) {
	if productID == "" {
		return nil, apperr.InvalidInput("productId required")
	}
	if qty < 1 {
		qty = 1
	}
	if len(tiers) == 0 {
		tiers = FallbackTiers
	}

	var matched *models.PriceTier
	for i := range tiers {
		t := tiers[i]
		if qty >= t.MinQty && (t.MaxQty == nil || qty <= *t.MaxQty) {
			matched = &t
			break
		}
	}
	unit := tiers[0].Price
	if matched != nil {
		unit = matched.Price
	}

	var savings float64
	if qty > 1 {
		savings = (tiers[0].Price - unit) * float64(qty)
	}

	return &models.CalculatePriceResponse{
		ProductID:   productID,
		Quantity:    qty,
		UnitPrice:   unit,
		TotalPrice:  utils.Round2(unit * float64(qty)),
		Savings:     utils.Round2(savings),
		PricingTier: matched,
	}, nil
}
