package service

import (
	"context"

	"directum-studio/models"
)

// CheckoutServiceInterface defines the contract for checkout operations
type CheckoutServiceInterface interface {
	ValidateLine(ctx context.Context, domain, quoteID, versionID, productID string) (models.Verdict, error)
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)
}
