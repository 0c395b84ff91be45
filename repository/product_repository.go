package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/utils"
)

// ProductRepository handles database operations for the relational product catalog
type ProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// GetByProductID returns a product row
func (r *ProductRepository) GetByProductID(ctx context.Context, productID string) (*models.Product, error) {
	query := `
		SELECT id, product_id, style_id, name, description, px_per_in_default, calibrated
		FROM products
		WHERE product_id = $1
	`

	var p models.Product
	var pxDefault sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID, &p.ProductID, &p.StyleID, &p.Name, &p.Description, &pxDefault, &p.Calibrated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("product %s not found", productID))
	}
	if err != nil {
		return nil, apperr.Upstream("failed to query product", err)
	}
	if pxDefault.Valid {
		v := pxDefault.Float64
		p.PxPerInDefault = &v
	}
	return &p, nil
}

// StyleIDForProduct returns the style a product belongs to
func (r *ProductRepository) StyleIDForProduct(ctx context.Context, productID string) (string, error) {
	p, err := r.GetByProductID(ctx, productID)
	if err != nil {
		return "", err
	}
	if p.StyleID == "" {
		return "", apperr.NotFound(fmt.Sprintf("product %s has no style", productID))
	}
	return p.StyleID, nil
}

// MirrorCalibration copies a calibration update into every product of the style
// inside a single transaction.
func (r *ProductRepository) MirrorCalibration(ctx context.Context, styleID string, upd models.CalibrationUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM products WHERE style_id = $1`, styleID)
	if err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating products: %w", err)
	}
	if len(ids) == 0 {
		return apperr.NotFound(fmt.Sprintf("no products for style %s", styleID))
	}

	view := utils.NormalizeView(upd.View)
	for _, id := range ids {
		if upd.DefaultPxPerIn > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET px_per_in_default = $1, calibrated = true, updated_at = NOW() WHERE id = $2`,
				upd.DefaultPxPerIn, id); err != nil {
				return fmt.Errorf("failed to update product default scale: %w", err)
			}
		}
		if view != "" && upd.PxPerIn > 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO product_views (product_pk, view, px_per_in)
				VALUES ($1, $2, $3)
				ON CONFLICT (product_pk, view) DO UPDATE SET px_per_in = EXCLUDED.px_per_in
			`, id, view, upd.PxPerIn); err != nil {
				return fmt.Errorf("failed to upsert product view scale: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET calibrated = true, updated_at = NOW() WHERE id = $1`, id); err != nil {
				return fmt.Errorf("failed to mark product calibrated: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calibration mirror: %w", err)
	}
	r.logger.Info("✓ calibration mirrored", zap.String("styleId", styleID), zap.Int("products", len(ids)))
	return nil
}

// PriceTiers returns a product's simple price tiers ordered by minimum quantity
func (r *ProductRepository) PriceTiers(ctx context.Context, productID string) ([]models.PriceTier, error) {
	query := `
		SELECT t.min_qty, t.max_qty, t.price
		FROM pricing_tiers t
		INNER JOIN products p ON p.id = t.product_pk
		WHERE p.product_id = $1
		ORDER BY t.min_qty ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, apperr.Upstream("failed to query pricing tiers", err)
	}
	defer rows.Close()

	var tiers []models.PriceTier
	for rows.Next() {
		var t models.PriceTier
		var maxQty sql.NullInt64
		if err := rows.Scan(&t.MinQty, &maxQty, &t.Price); err != nil {
			return nil, fmt.Errorf("failed to scan pricing tier: %w", err)
		}
		if maxQty.Valid {
			v := int(maxQty.Int64)
			t.MaxQty = &v
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pricing tiers: %w", err)
	}
	return tiers, nil
}
