package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// Config holds every runtime setting, read from the environment
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Object storage
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"s3"`
	AWSRegion      string        `env:"AWS_REGION" envDefault:"us-east-1"`
	BucketName     string        `env:"AWS_BUCKET_NAME"`
	BucketURL      string        `env:"AWS_BUCKET_URL"`
	PresignTTL     time.Duration `env:"PRESIGN_TTL" envDefault:"15m"`

	// Postgres is optional; without it style ids fall back to the product id prefix
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	RunMigrations     bool          `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Redis is optional; without it catalog lookups are not cached
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"6h"`

	// Product data (SAGE)
	SageBaseURL string        `env:"SAGE_BASE_URL"`
	SageAPIKey  string        `env:"SAGE_API_KEY"`
	SageAcctID  int           `env:"SAGE_ACCT_ID" envDefault:"0"`
	SageLoginID string        `env:"SAGE_LOGIN_ID"`
	SageAuthKey string        `env:"SAGE_AUTH_KEY"`
	SageTimeout time.Duration `env:"SAGE_TIMEOUT" envDefault:"10s"`

	// Pricing
	PricingMatrixKey  string `env:"PRICING_MATRIX_KEY" envDefault:"config/pfi_decor_matrix_v1.json"`
	PricingPrecedence string `env:"PRICING_PRECEDENCE" envDefault:"first"`
	PricingStrict     bool   `env:"PRICING_STRICT" envDefault:"false"`

	// Checkout
	GuardPlacement         bool   `env:"GUARD_PLACEMENT" envDefault:"false"`
	GuardRejectClientSpecs bool   `env:"GUARD_REJECT_CLIENT_SPECS" envDefault:"false"`
	PaymentServiceURL      string `env:"PAYMENT_SERVICE_URL"`
	PaymentServiceToken    string `env:"PAYMENT_SERVICE_TOKEN"`

	GoogleCredentialsPath string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ChromePath            string        `env:"CHROME_PATH"`
	IndexRetryMaxElapsed  time.Duration `env:"INDEX_RETRY_MAX_ELAPSED" envDefault:"3s"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageS3:
		if c.BucketName == "" {
			return fmt.Errorf("AWS_BUCKET_NAME is required when STORAGE_BACKEND=s3")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.PricingPrecedence {
	case "first", "most_specific", "cheapest":
	default:
		return fmt.Errorf("unknown PRICING_PRECEDENCE %q", c.PricingPrecedence)
	}

	if c.PresignTTL <= 0 {
		return fmt.Errorf("PRESIGN_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ListenAddr returns the address the HTTP server binds to. PORT may carry a leading colon.
func (c *Config) ListenAddr() string {
	port := c.Port
	if len(port) > 0 && port[0] == ':' {
		port = port[1:]
	}
	return "0.0.0.0:" + port
}
