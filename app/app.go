package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"directum-studio/app/controller"
	"directum-studio/app/router"
	"directum-studio/config"
	"directum-studio/db"
	"directum-studio/placement"
	"directum-studio/pricing"
	"directum-studio/repository"
	"directum-studio/service"
	"directum-studio/storage"
)

// App is the initialized HTTP application
type App struct {
	Router *gin.Engine
	redis  *redis.Client
	logger *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Object storage
	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Relational catalog is optional
	var (
		styles   service.StyleLookup
		mirror   repository.CalibrationMirror
		tiers    service.TierSource
		products *repository.ProductRepository
	)
	if cfg.DatabaseURL != "" {
		if err := db.InitDB(ctx, cfg.DatabaseURL, db.Options{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		}, logger); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, db.DB); err != nil {
				return nil, err
			}
			logger.Info("✓ migrations applied")
		}
		products = repository.NewProductRepository(db.DB, logger)
		styles, mirror, tiers = products, products, products
	} else {
		logger.Warn("⚠️  DATABASE_URL not set, running without the product catalog")
	}

	// Product data with optional Redis cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = service.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("⚠️  redis not reachable, catalog lookups will bypass the cache", zap.Error(err))
		}
	}
	sage := service.NewSageClient(service.SageConfig{
		BaseURL: cfg.SageBaseURL,
		APIKey:  cfg.SageAPIKey,
		AcctID:  cfg.SageAcctID,
		LoginID: cfg.SageLoginID,
		AuthKey: cfg.SageAuthKey,
		Timeout: cfg.SageTimeout,
	}, logger)
	productData := service.NewProductData(service.NewCachedCatalog(sage, redisClient, cfg.CatalogCacheTTL, logger))

	// Google Drive is optional; drive:// logo references and catalog image sync need it
	var drive service.DriveServiceInterface
	if cfg.GoogleCredentialsPath != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath, logger)
		if err != nil {
			logger.Warn("⚠️  drive service unavailable", zap.Error(err))
		} else {
			drive = driveService
		}
	}

	// Repositories
	zoneRepo := repository.NewZoneRepository(store, logger)
	calibrationRepo := repository.NewCalibrationRepository(store, mirror, logger)
	manifestRepo := repository.NewManifestRepository(store, cfg.IndexRetryMaxElapsed, logger)

	// Services
	styleResolver := service.NewStyleResolver(styles, logger)
	baseImages := service.NewBaseImageResolver(store, logger)
	chain := placement.NewDefaultChain(logger, zoneRepo, calibrationRepo, productData, baseImages)

	logos := service.NewLogoFetcher(store, drive, service.LogoFetcherConfig{
		BucketName: cfg.BucketName,
		BucketURL:  cfg.BucketURL,
		PresignTTL: cfg.PresignTTL,
	}, logger)

	precedence, err := pricing.ParsePrecedence(cfg.PricingPrecedence)
	if err != nil {
		return nil, err
	}
	engine := pricing.NewEngine(pricing.Options{
		Matrix:     pricing.NewStoreMatrix(store, cfg.PricingMatrixKey),
		Blanks:     productData,
		Precedence: precedence,
		Strict:     cfg.PricingStrict,
		Logger:     logger,
	})

	designService := service.NewDesignService(manifestRepo, styleResolver, chain, logger)
	previewService := service.NewPreviewService(manifestRepo, styleResolver, baseImages, logos, store, cfg.PresignTTL, logger)
	pricingService := service.NewPricingService(engine, tiers, logger)
	checkoutService := service.NewCheckoutService(manifestRepo, engine,
		service.NewHTTPPaymentGateway(cfg.PaymentServiceURL, cfg.PaymentServiceToken, logger),
		service.GuardConfig{Enabled: cfg.GuardPlacement, RejectClientSpecs: cfg.GuardRejectClientSpecs},
		logger)
	logoService := service.NewLogoService(store, cfg.BucketURL, cfg.PresignTTL, logger)
	worksheetService := service.NewWorksheetService(manifestRepo, previewService, cfg.ChromePath, logger)
	syncService := service.NewSyncService(drive, store, logger)

	// Create controllers
	controllers := &router.Controllers{
		Design:   controller.NewDesignController(designService, logger),
		Preview:  controller.NewPreviewController(previewService, logger),
		Pricing:  controller.NewPricingController(pricingService, logger),
		Catalog:  controller.NewCatalogController(zoneRepo, calibrationRepo, syncService, logger),
		Checkout: controller.NewCheckoutController(checkoutService, logger),
		Logo:     controller.NewLogoController(logoService, logger),
		Download: controller.NewDownloadController(worksheetService, logger),
	}

	logger.Info("✓ application initialized",
		zap.String("storage", cfg.StorageBackend),
		zap.Bool("database", products != nil),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("drive", drive != nil),
		zap.Bool("placementGuard", cfg.GuardPlacement))

	return &App{
		Router: router.SetupRoutes(controllers, logger),
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Close releases the database and cache connections
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("⚠️  failed to close redis", zap.Error(err))
		}
	}
	if err := db.CloseDB(); err != nil {
		a.logger.Warn("⚠️  failed to close database", zap.Error(err))
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.StorageBackend == config.StorageMemory {
		return storage.NewMemoryStore(cfg.BucketURL), nil
	}
	s3Store, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}
	return s3Store, nil
}
