package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/app/controller"
)

// Controllers groups every HTTP controller the router dispatches to
type Controllers struct {
	Design   *controller.DesignController
	Preview  *controller.PreviewController
	Pricing  *controller.PricingController
	Catalog  *controller.CatalogController
	Checkout *controller.CheckoutController
	Logo     *controller.LogoController
	Download *controller.DownloadController
}

// pingHandler handles GET /ping
func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// healthHandler handles GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetupRoutes builds the gin engine with middleware and every API route
func SetupRoutes(controllers *Controllers, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/ping", pingHandler)
	router.GET("/health", healthHandler)

	api := router.Group("/api")
	{
		// Pricing
		api.POST("/price/quote", controllers.Pricing.PriceQuote)
		api.POST("/price/quote/export", controllers.Pricing.ExportQuote)
		api.POST("/calculate-price", controllers.Pricing.CalculatePrice)

		// Zones, calibration and base images
		api.GET("/zones/:styleId", controllers.Catalog.GetZones)
		admin := api.Group("/admin")
		{
			admin.PUT("/zones/:styleId", controllers.Catalog.PutZones)
			admin.GET("/scales/:styleId", controllers.Catalog.GetScales)
			admin.POST("/scales/:styleId", controllers.Catalog.SaveScales)
			admin.POST("/catalog-images/:styleId/sync", controllers.Catalog.SyncImages)
		}

		// Logos
		api.POST("/logo/presign", controllers.Logo.PresignUpload)
		api.GET("/customer/:email/logo", controllers.Logo.CustomerLogo)

		// Checkout
		api.POST("/create-checkout", controllers.Checkout.CreateCheckout)

		// Quote versions, designs and previews
		quotes := api.Group("/quotes/:quoteId")
		{
			quotes.POST("/versions", controllers.Design.CreateVersion)
			quotes.GET("/versions", controllers.Design.ListVersions)
			quotes.GET("/versions/:versionId", controllers.Design.GetVersion)
			quotes.GET("/products/:productId/versions", controllers.Design.ListProductVersions)

			quotes.POST("/versions/:versionId/designs/:productId", controllers.Design.SaveDesign)
			quotes.GET("/versions/:versionId/designs/:productId", controllers.Design.GetDesign)

			quotes.GET("/versions/:versionId/previews/:productId", controllers.Preview.GetPreview)
			quotes.POST("/versions/:versionId/previews/:productId/render", controllers.Preview.RenderPreview)

			quotes.GET("/versions/:versionId/work-order", controllers.Download.WorkOrderPDF)
			quotes.GET("/versions/:versionId/work-order/html", controllers.Download.WorkOrderHTML)
		}
	}

	return router
}
