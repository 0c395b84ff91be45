package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/models"
	"directum-studio/service"
)

// CheckoutController handles HTTP requests for checkout
type CheckoutController struct {
	checkout service.CheckoutServiceInterface
	logger   *zap.Logger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(checkout service.CheckoutServiceInterface, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{checkout: checkout, logger: logger}
}

// CreateCheckout handles POST /api/create-checkout
// Rejected lines come back as a 400 whose details carry every line's verdict
func (c *CheckoutController) CreateCheckout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if !bindJSON(ctx, c.logger, "CreateCheckout", &req) {
		return
	}

	c.logger.Info("🛒 CreateCheckout",
		zap.String("quoteId", req.QuoteID),
		zap.Int("lines", len(req.Products)))

	result, err := c.checkout.Checkout(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, c.logger, "CreateCheckout", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"url":      result.URL,
		"verdicts": result.Verdicts,
	})
}
