package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/service"
	"directum-studio/storage"
	"directum-studio/utils"
)

// PreviewController handles HTTP requests for rendered design previews
type PreviewController struct {
	previews service.PreviewServiceInterface
	logger   *zap.Logger
}

// NewPreviewController creates a new PreviewController
func NewPreviewController(previews service.PreviewServiceInterface, logger *zap.Logger) *PreviewController {
	return &PreviewController{previews: previews, logger: logger}
}

type renderPreviewRequest struct {
	Email string `json:"email"`
}

// RenderPreview handles POST /api/quotes/:quoteId/versions/:versionId/previews/:productId/render
func (c *PreviewController) RenderPreview(ctx *gin.Context) {
	var req renderPreviewRequest
	if !bindJSON(ctx, c.logger, "RenderPreview", &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(ctx, c.logger, "RenderPreview", apperr.InvalidInput("email required"))
		return
	}

	domain := utils.CompanyDomainFromEmail(req.Email)
	artifact, err := c.previews.Render(ctx.Request.Context(), domain,
		ctx.Param("quoteId"), ctx.Param("versionId"), ctx.Param("productId"))
	if err != nil {
		respondError(ctx, c.logger, "RenderPreview", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"previewKey": artifact.PreviewKey,
		"previewUrl": artifact.PreviewURL,
		"size":       artifact.Size,
		"base":       artifact.Base,
	})
}

// GetPreview handles GET /api/quotes/:quoteId/versions/:versionId/previews/:productId?email=
func (c *PreviewController) GetPreview(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "GetPreview")
	if !ok {
		return
	}
	domain := utils.CompanyDomainFromEmail(email)
	quoteID, versionID, productID := ctx.Param("quoteId"), ctx.Param("versionId"), ctx.Param("productId")

	url, err := c.previews.PreviewURL(ctx.Request.Context(), domain, quoteID, versionID, productID)
	if err != nil {
		respondError(ctx, c.logger, "GetPreview", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"key": storage.PreviewKey(domain, quoteID, versionID, productID),
		"url": url,
	})
}
