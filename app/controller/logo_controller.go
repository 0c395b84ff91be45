package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/service"
)

// LogoController handles HTTP requests for customer logos
type LogoController struct {
	logos  service.LogoServiceInterface
	logger *zap.Logger
}

// NewLogoController creates a new LogoController
func NewLogoController(logos service.LogoServiceInterface, logger *zap.Logger) *LogoController {
	return &LogoController{logos: logos, logger: logger}
}

// PresignUpload handles POST /api/logo/presign
func (c *LogoController) PresignUpload(ctx *gin.Context) {
	var req models.LogoPresignRequest
	if !bindJSON(ctx, c.logger, "PresignUpload", &req) {
		return
	}

	resp, err := c.logos.PresignUpload(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, c.logger, "PresignUpload", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CustomerLogo handles GET /api/customer/:email/logo
func (c *LogoController) CustomerLogo(ctx *gin.Context) {
	logo, err := c.logos.CustomerLogo(ctx.Request.Context(), ctx.Param("email"))
	if apperr.IsCode(err, apperr.CodeNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"ok": false, "error": string(apperr.CodeNotFound), "message": "No logo found", "hasLogo": false})
		return
	}
	if err != nil {
		respondError(ctx, c.logger, "CustomerLogo", err)
		return
	}
	ctx.JSON(http.StatusOK, logo)
}
