package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/service"
)

// DownloadController handles HTTP requests for production documents
type DownloadController struct {
	worksheets service.WorksheetServiceInterface
	logger     *zap.Logger
}

// NewDownloadController creates a new DownloadController
func NewDownloadController(worksheets service.WorksheetServiceInterface, logger *zap.Logger) *DownloadController {
	return &DownloadController{worksheets: worksheets, logger: logger}
}

// WorkOrderPDF handles GET /api/quotes/:quoteId/versions/:versionId/work-order?email=
// Returns the version's production work order as a PDF attachment
func (c *DownloadController) WorkOrderPDF(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "WorkOrderPDF")
	if !ok {
		return
	}
	quoteID, versionID := ctx.Param("quoteId"), ctx.Param("versionId")

	c.logger.Info("📥 WorkOrderPDF", zap.String("quoteId", quoteID), zap.String("versionId", versionID))

	pdf, err := c.worksheets.GeneratePDF(ctx.Request.Context(), email, quoteID, versionID)
	if err != nil {
		respondError(ctx, c.logger, "WorkOrderPDF", err)
		return
	}

	filename := fmt.Sprintf("work_order_%s_%s.pdf", quoteID, versionID)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	ctx.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	ctx.Data(http.StatusOK, "application/pdf", pdf)

	c.logger.Info("✅ WorkOrderPDF sent", zap.Int("bytes", len(pdf)))
}

// WorkOrderHTML handles GET /api/quotes/:quoteId/versions/:versionId/work-order/html?email=
func (c *DownloadController) WorkOrderHTML(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "WorkOrderHTML")
	if !ok {
		return
	}

	html, err := c.worksheets.RenderHTML(ctx.Request.Context(), email, ctx.Param("quoteId"), ctx.Param("versionId"))
	if err != nil {
		respondError(ctx, c.logger, "WorkOrderHTML", err)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
