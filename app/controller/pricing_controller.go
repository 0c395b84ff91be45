package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/models"
	"directum-studio/service"
	"directum-studio/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PricingController handles HTTP requests for quote pricing
type PricingController struct {
	pricing service.PricingServiceInterface
	logger  *zap.Logger
}

// NewPricingController creates a new PricingController
func NewPricingController(pricing service.PricingServiceInterface, logger *zap.Logger) *PricingController {
	return &PricingController{pricing: pricing, logger: logger}
}

// PriceQuote handles POST /api/price/quote
func (c *PricingController) PriceQuote(ctx *gin.Context) {
	var req models.PriceQuoteRequest
	if !bindJSON(ctx, c.logger, "PriceQuote", &req) {
		return
	}

	lines, err := c.pricing.Quote(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, c.logger, "PriceQuote", err)
		return
	}

	c.logger.Info("💲 PriceQuote", zap.Int("lines", len(lines)))
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "lines": lines})
}

// ExportQuote handles POST /api/price/quote/export?quoteId=
// Prices the lines and returns them as an XLSX download
func (c *PricingController) ExportQuote(ctx *gin.Context) {
	var req models.PriceQuoteRequest
	if !bindJSON(ctx, c.logger, "ExportQuote", &req) {
		return
	}
	quoteID := strings.TrimSpace(ctx.Query("quoteId"))
	if !storage.ValidSegment(quoteID) {
		quoteID = "quote"
	}

	data, err := c.pricing.ExportQuote(ctx.Request.Context(), quoteID, req)
	if err != nil {
		respondError(ctx, c.logger, "ExportQuote", err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", quoteID))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// CalculatePrice handles POST /api/calculate-price
func (c *PricingController) CalculatePrice(ctx *gin.Context) {
	var req models.CalculatePriceRequest
	if !bindJSON(ctx, c.logger, "CalculatePrice", &req) {
		return
	}

	resp, err := c.pricing.CalculatePrice(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, c.logger, "CalculatePrice", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
