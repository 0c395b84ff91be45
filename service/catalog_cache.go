package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"directum-studio/models"
)

// CatalogLookup returns product detail from the product data collaborator
type CatalogLookup interface {
	ProductDetail(ctx context.Context, prodEID string) (*models.ProductDetail, error)
}

// CachedCatalog puts a Redis read-through cache in front of a CatalogLookup.
// Redis failures degrade to direct lookups.
type CachedCatalog struct {
	next   CatalogLookup
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ CatalogLookup = (*CachedCatalog)(nil)

// NewRedisClient creates the Redis client used for catalog caching
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
	})
}

// NewCachedCatalog wraps next. A nil client disables caching.
func NewCachedCatalog(next CatalogLookup, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{next: next, redis: client, ttl: ttl, logger: logger}
}

func cacheKey(prodEID string) string {
	return fmt.Sprintf("catalog:product:%s", prodEID)
}

func (c *CachedCatalog) ProductDetail(ctx context.Context, prodEID string) (*models.ProductDetail, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, cacheKey(prodEID)).Bytes()
		switch {
		case err == nil:
			var detail models.ProductDetail
			if err := json.Unmarshal(data, &detail); err == nil {
				return &detail, nil
			}
			c.logger.Warn("⚠️  discarding unreadable catalog cache entry", zap.String("prodEId", prodEID))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("⚠️  catalog cache read failed", zap.String("prodEId", prodEID), zap.Error(err))
		}
	}

	detail, err := c.next.ProductDetail(ctx, prodEID)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if data, err := json.Marshal(detail); err == nil {
			if err := c.redis.Set(ctx, cacheKey(prodEID), data, c.ttl).Err(); err != nil {
				c.logger.Warn("⚠️  catalog cache write failed", zap.String("prodEId", prodEID), zap.Error(err))
			}
		}
	}
	return detail, nil
}

// ProductData adapts a CatalogLookup to the imprint and breakpoint views the
// placement chain and pricing engine consume.
type ProductData struct {
	lookup CatalogLookup
}

// NewProductData creates a new ProductData
func NewProductData(lookup CatalogLookup) *ProductData {
	return &ProductData{lookup: lookup}
}

// ImprintPhysical returns the product's physical imprint area, or nil when unknown
func (p *ProductData) ImprintPhysical(ctx context.Context, productID string) (*models.PhysicalSize, error) {
	detail, err := p.lookup.ProductDetail(ctx, productID)
	if err != nil {
		return nil, err
	}
	return detail.ImprintPhysical, nil
}

// Breakpoints returns the product's net price table, or nil when unknown
func (p *ProductData) Breakpoints(ctx context.Context, prodEID string) (*models.PriceBreakpoints, error) {
	detail, err := p.lookup.ProductDetail(ctx, prodEID)
	if err != nil {
		return nil, err
	}
	return detail.Breakpoints, nil
}
