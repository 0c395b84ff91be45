package service

import (
	"context"

	"directum-studio/models"
)

// LogoServiceInterface defines the contract for customer logo operations
type LogoServiceInterface interface {
	PresignUpload(ctx context.Context, req models.LogoPresignRequest) (*models.LogoPresignResponse, error)
	CustomerLogo(ctx context.Context, email string) (*models.CustomerLogo, error)
}
