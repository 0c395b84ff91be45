package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
	"directum-studio/utils"
)

// CalibrationRepository reads and merges per-style scale documents
type CalibrationRepository struct {
	store    storage.ObjectStore
	products CalibrationMirror
	logger   *zap.Logger
}

// Ensure CalibrationRepository implements CalibrationRepositoryInterface
var _ CalibrationRepositoryInterface = (*CalibrationRepository)(nil)

// NewCalibrationRepository creates a new CalibrationRepository. products may be nil
// when no relational catalog is configured.
func NewCalibrationRepository(store storage.ObjectStore, products CalibrationMirror, logger *zap.Logger) *CalibrationRepository {
	return &CalibrationRepository{store: store, products: products, logger: logger}
}

// Get returns the stored calibration record of a style
func (r *CalibrationRepository) Get(ctx context.Context, styleID string) (*models.CalibrationRecord, error) {
	var rec models.CalibrationRecord
	if _, err := storage.GetJSON(ctx, r.store, storage.ScalesKey(styleID), &rec); err != nil {
		return nil, storeError("calibration for style "+styleID, err)
	}
	return &rec, nil
}

// ResolveScale picks the most specific stored scale: view, then size, then default
func (r *CalibrationRepository) ResolveScale(ctx context.Context, styleID, view, size string) (float64, error) {
	rec, err := r.Get(ctx, styleID)
	if err != nil {
		return 0, err
	}

	if v := utils.NormalizeView(view); v != "" {
		if vs, ok := rec.Views[v]; ok && vs.PxPerIn > 0 {
			return vs.PxPerIn, nil
		}
	}
	if s := utils.NormalizeSize(size); s != "" {
		if px, ok := rec.Sizes[s]; ok && px > 0 {
			return px, nil
		}
	}
	if rec.DefaultPxPerIn != nil && *rec.DefaultPxPerIn > 0 {
		return *rec.DefaultPxPerIn, nil
	}
	return 0, apperr.NotFound(fmt.Sprintf("no usable scale stored for style %s", styleID))
}

// Merge applies an update to the stored record and writes it back. Fields the
// update does not set are kept. The merge is read-modify-write without a
// write condition; concurrent admin edits are last-write-wins.
func (r *CalibrationRepository) Merge(ctx context.Context, styleID string, upd models.CalibrationUpdate) (*models.CalibrationResponse, error) {
	if err := validateCalibrationUpdate(upd); err != nil {
		return nil, err
	}

	key := storage.ScalesKey(styleID)
	rec, err := r.Get(ctx, styleID)
	if err != nil {
		if !apperr.IsCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		rec = &models.CalibrationRecord{}
	}
	applyCalibrationUpdate(rec, upd)

	if _, err := storage.PutJSON(ctx, r.store, key, rec); err != nil {
		return nil, apperr.Upstream("failed to write calibration", err)
	}
	r.logger.Info("📏 calibration saved", zap.String("styleId", styleID), zap.String("key", key))

	return &models.CalibrationResponse{
		Key:    key,
		Data:   *rec,
		Mirror: r.mirror(ctx, styleID, upd),
	}, nil
}

func (r *CalibrationRepository) mirror(ctx context.Context, styleID string, upd models.CalibrationUpdate) models.MirrorResult {
	if r.products == nil {
		return models.MirrorResult{OK: false, Error: "database-not-configured"}
	}
	if err := r.products.MirrorCalibration(ctx, styleID, upd); err != nil {
		r.logger.Warn("⚠️  calibration mirror failed", zap.String("styleId", styleID), zap.Error(err))
		msg := err.Error()
		if apperr.IsCode(err, apperr.CodeNotFound) {
			msg = "product-not-found"
		}
		return models.MirrorResult{OK: false, Error: msg}
	}
	return models.MirrorResult{OK: true}
}

func validateCalibrationUpdate(upd models.CalibrationUpdate) error {
	if upd.DefaultPxPerIn > 0 {
		return nil
	}
	if upd.PxPerIn > 0 && (upd.Size != "" || upd.View != "") {
		return nil
	}
	return apperr.InvalidInput("provide defaultPxPerIn or size+pxPerIn or view+pxPerIn")
}

func applyCalibrationUpdate(rec *models.CalibrationRecord, upd models.CalibrationUpdate) {
	if upd.DefaultPxPerIn > 0 {
		v := upd.DefaultPxPerIn
		rec.DefaultPxPerIn = &v
	}
	if upd.PxPerIn <= 0 {
		return
	}
	if s := utils.NormalizeSize(upd.Size); s != "" {
		if rec.Sizes == nil {
			rec.Sizes = make(map[string]float64)
		}
		rec.Sizes[s] = upd.PxPerIn
	}
	if v := utils.NormalizeView(upd.View); v != "" {
		if rec.Views == nil {
			rec.Views = make(map[string]models.ViewScale)
		}
		rec.Views[v] = models.ViewScale{PxPerIn: upd.PxPerIn}
	}
}

// isNotFound is shared by repositories that treat a missing document as empty
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || apperr.IsCode(err, apperr.CodeNotFound)
}
