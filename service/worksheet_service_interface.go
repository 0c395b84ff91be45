package service

import "context"

// WorksheetServiceInterface defines the contract for production work orders
type WorksheetServiceInterface interface {
	RenderHTML(ctx context.Context, email, quoteID, versionID string) (string, error)
	GeneratePDF(ctx context.Context, email, quoteID, versionID string) ([]byte, error)
}
