package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/repository"
	"directum-studio/service"
	"directum-studio/storage"
)

// CatalogController handles HTTP requests for per-style zones, calibration and base images
type CatalogController struct {
	zones        repository.ZoneRepositoryInterface
	calibrations repository.CalibrationRepositoryInterface
	images       service.SyncServiceInterface
	logger       *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(
	zones repository.ZoneRepositoryInterface,
	calibrations repository.CalibrationRepositoryInterface,
	images service.SyncServiceInterface,
	logger *zap.Logger,
) *CatalogController {
	return &CatalogController{
		zones:        zones,
		calibrations: calibrations,
		images:       images,
		logger:       logger,
	}
}

// GetZones handles GET /api/zones/:styleId
func (c *CatalogController) GetZones(ctx *gin.Context) {
	styleID, ok := c.styleParam(ctx, "GetZones")
	if !ok {
		return
	}
	catalog, err := c.zones.GetZones(ctx.Request.Context(), styleID)
	if err != nil {
		respondError(ctx, c.logger, "GetZones", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "data": catalog})
}

// PutZones handles PUT /api/admin/zones/:styleId
func (c *CatalogController) PutZones(ctx *gin.Context) {
	styleID, ok := c.styleParam(ctx, "PutZones")
	if !ok {
		return
	}
	var catalog models.ZoneCatalog
	if !bindJSON(ctx, c.logger, "PutZones", &catalog) {
		return
	}

	key, err := c.zones.PutZones(ctx.Request.Context(), styleID, catalog)
	if err != nil {
		respondError(ctx, c.logger, "PutZones", err)
		return
	}

	published, err := c.zones.GetZones(ctx.Request.Context(), styleID)
	if err != nil {
		respondError(ctx, c.logger, "PutZones", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "key": key, "data": published})
}

// GetScales handles GET /api/admin/scales/:styleId
func (c *CatalogController) GetScales(ctx *gin.Context) {
	styleID, ok := c.styleParam(ctx, "GetScales")
	if !ok {
		return
	}
	rec, err := c.calibrations.Get(ctx.Request.Context(), styleID)
	if err != nil {
		respondError(ctx, c.logger, "GetScales", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "key": storage.ScalesKey(styleID), "data": rec})
}

// SaveScales handles POST /api/admin/scales/:styleId
// Merges a default, per-size or per-view scale into the style's calibration
func (c *CatalogController) SaveScales(ctx *gin.Context) {
	styleID, ok := c.styleParam(ctx, "SaveScales")
	if !ok {
		return
	}
	var upd models.CalibrationUpdate
	if !bindJSON(ctx, c.logger, "SaveScales", &upd) {
		return
	}

	resp, err := c.calibrations.Merge(ctx.Request.Context(), styleID, upd)
	if err != nil {
		respondError(ctx, c.logger, "SaveScales", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"key":    resp.Key,
		"data":   resp.Data,
		"mirror": resp.Mirror,
	})
}

// SyncImages handles POST /api/admin/catalog-images/:styleId/sync
// Imports the style's base product images from a Google Drive folder
func (c *CatalogController) SyncImages(ctx *gin.Context) {
	styleID, ok := c.styleParam(ctx, "SyncImages")
	if !ok {
		return
	}
	var req models.ImageSyncRequest
	if !bindJSON(ctx, c.logger, "SyncImages", &req) {
		return
	}

	result, err := c.images.SyncStyleImages(ctx.Request.Context(), styleID, req.FolderID)
	if err != nil {
		respondError(ctx, c.logger, "SyncImages", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}

func (c *CatalogController) styleParam(ctx *gin.Context, op string) (string, bool) {
	styleID := ctx.Param("styleId")
	if !storage.ValidSegment(styleID) {
		respondError(ctx, c.logger, op, apperr.InvalidInput("invalid styleId"))
		return "", false
	}
	return styleID, true
}
