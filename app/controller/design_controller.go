package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/service"
	"directum-studio/storage"
	"directum-studio/utils"
)

// DesignController handles HTTP requests for design manifests and quote versions
type DesignController struct {
	designs service.DesignServiceInterface
	logger  *zap.Logger
}

// NewDesignController creates a new DesignController
func NewDesignController(designs service.DesignServiceInterface, logger *zap.Logger) *DesignController {
	return &DesignController{designs: designs, logger: logger}
}

// SaveDesign handles POST /api/quotes/:quoteId/versions/:versionId/designs/:productId
func (c *DesignController) SaveDesign(ctx *gin.Context) {
	var req models.SaveDesignRequest
	if !bindJSON(ctx, c.logger, "SaveDesign", &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(ctx, c.logger, "SaveDesign", apperr.InvalidInput("email required"))
		return
	}

	c.logger.Info("📥 SaveDesign",
		zap.String("quoteId", ctx.Param("quoteId")),
		zap.String("versionId", ctx.Param("versionId")),
		zap.String("productId", ctx.Param("productId")))

	resp, err := c.designs.PutManifest(ctx.Request.Context(), service.PutManifestInput{
		Email:     req.Email,
		QuoteID:   ctx.Param("quoteId"),
		VersionID: ctx.Param("versionId"),
		ProductID: ctx.Param("productId"),
		LogoRef:   req.LogoRef,
		Name:      req.Name,
		Placement: req.Placement,
	})
	if err != nil {
		respondError(ctx, c.logger, "SaveDesign", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"designKey": resp.DesignKey,
		"indexKey":  resp.IndexKey,
		"design":    resp.Design,
	})
}

// GetDesign handles GET /api/quotes/:quoteId/versions/:versionId/designs/:productId?email=
func (c *DesignController) GetDesign(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "GetDesign")
	if !ok {
		return
	}
	quoteID, versionID, productID := ctx.Param("quoteId"), ctx.Param("versionId"), ctx.Param("productId")

	design, err := c.designs.GetManifest(ctx.Request.Context(), email, quoteID, versionID, productID)
	if err != nil {
		respondError(ctx, c.logger, "GetDesign", err)
		return
	}

	domain := utils.CompanyDomainFromEmail(email)
	ctx.JSON(http.StatusOK, gin.H{
		"key":    storage.DesignKey(domain, quoteID, versionID, productID),
		"design": design,
	})
}

// CreateVersion handles POST /api/quotes/:quoteId/versions
func (c *DesignController) CreateVersion(ctx *gin.Context) {
	var req models.CreateVersionRequest
	if !bindJSON(ctx, c.logger, "CreateVersion", &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(ctx, c.logger, "CreateVersion", apperr.InvalidInput("email required"))
		return
	}

	quoteID := ctx.Param("quoteId")
	version, err := c.designs.CreateVersion(ctx.Request.Context(), quoteID, req)
	if err != nil {
		respondError(ctx, c.logger, "CreateVersion", err)
		return
	}

	domain := utils.CompanyDomainFromEmail(req.Email)
	ctx.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"key":     storage.IndexKey(domain, quoteID, version.VersionID),
		"version": version,
	})
}

// GetVersion handles GET /api/quotes/:quoteId/versions/:versionId?email=
func (c *DesignController) GetVersion(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "GetVersion")
	if !ok {
		return
	}
	quoteID, versionID := ctx.Param("quoteId"), ctx.Param("versionId")

	idx, err := c.designs.GetVersionIndex(ctx.Request.Context(), email, quoteID, versionID)
	if err != nil {
		respondError(ctx, c.logger, "GetVersion", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"key":   storage.IndexKey(utils.CompanyDomainFromEmail(email), quoteID, versionID),
		"index": idx,
	})
}

// ListVersions handles GET /api/quotes/:quoteId/versions?email=
func (c *DesignController) ListVersions(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "ListVersions")
	if !ok {
		return
	}

	versions, err := c.designs.ListVersions(ctx.Request.Context(), email, ctx.Param("quoteId"))
	if err != nil {
		respondError(ctx, c.logger, "ListVersions", err)
		return
	}
	if versions == nil {
		versions = []models.VersionSummary{}
	}
	ctx.JSON(http.StatusOK, gin.H{"versions": versions})
}

// ListProductVersions handles GET /api/quotes/:quoteId/products/:productId/versions?email=
func (c *DesignController) ListProductVersions(ctx *gin.Context) {
	email, ok := requireEmail(ctx, c.logger, "ListProductVersions")
	if !ok {
		return
	}

	versions, err := c.designs.ListVersionsContainingProduct(ctx.Request.Context(), email, ctx.Param("quoteId"), ctx.Param("productId"))
	if err != nil {
		respondError(ctx, c.logger, "ListProductVersions", err)
		return
	}
	if versions == nil {
		versions = []string{}
	}
	ctx.JSON(http.StatusOK, gin.H{"versions": versions})
}
