package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/placement"
	"directum-studio/storage"
)

// ZoneRepository reads and publishes per-style zone catalogs
type ZoneRepository struct {
	store  storage.ObjectStore
	logger *zap.Logger
}

// Ensure ZoneRepository implements ZoneRepositoryInterface
var _ ZoneRepositoryInterface = (*ZoneRepository)(nil)

// NewZoneRepository creates a new ZoneRepository
func NewZoneRepository(store storage.ObjectStore, logger *zap.Logger) *ZoneRepository {
	return &ZoneRepository{store: store, logger: logger}
}

// GetZones returns the published zone catalog of a style
func (r *ZoneRepository) GetZones(ctx context.Context, styleID string) (*models.ZoneCatalog, error) {
	var catalog models.ZoneCatalog
	if _, err := storage.GetJSON(ctx, r.store, storage.ZonesKey(styleID), &catalog); err != nil {
		return nil, storeError("zones for style "+styleID, err)
	}
	return &catalog, nil
}

// ResolveZone returns the zone named zoneName, or the first zone when none matches
func (r *ZoneRepository) ResolveZone(ctx context.Context, styleID, zoneName string) (*models.Zone, error) {
	catalog, err := r.GetZones(ctx, styleID)
	if err != nil {
		return nil, err
	}
	if len(catalog.Zones) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("style %s has no zones", styleID))
	}

	for i := range catalog.Zones {
		if catalog.Zones[i].Name == zoneName {
			return &catalog.Zones[i], nil
		}
	}
	return &catalog.Zones[0], nil
}

// PutZones validates a zone catalog and merges it by name into the published one.
// Published zones are immutable: resending one unchanged is a no-op, changing its
// rect or physical size fails with Conflict. Zones not named in the request are kept.
func (r *ZoneRepository) PutZones(ctx context.Context, styleID string, catalog models.ZoneCatalog) (string, error) {
	if len(catalog.Zones) == 0 {
		return "", apperr.InvalidInput("zones must not be empty")
	}
	seen := make(map[string]bool, len(catalog.Zones))
	for _, z := range catalog.Zones {
		if z.Name == "" {
			return "", apperr.InvalidInput("every zone needs a name")
		}
		if seen[z.Name] {
			return "", apperr.InvalidInput(fmt.Sprintf("duplicate zone %q", z.Name))
		}
		seen[z.Name] = true
		if err := placement.ValidateZone(z); err != nil {
			return "", err
		}
	}

	key := storage.ZonesKey(styleID)
	var current models.ZoneCatalog
	cond := storage.Condition{IfNoneMatch: true}
	etag, err := storage.GetJSON(ctx, r.store, key, &current)
	switch {
	case err == nil:
		cond = storage.Condition{IfMatch: etag}
	case !errors.Is(err, storage.ErrNotFound):
		return "", storeError("zones for style "+styleID, err)
	}

	merged, added, err := mergeZones(current, catalog)
	if err != nil {
		return "", err
	}
	if added == 0 && cond.IfMatch != "" {
		r.logger.Info("🗺️  zones already published", zap.String("styleId", styleID))
		return key, nil
	}

	if _, err := storage.PutJSONIf(ctx, r.store, key, merged, cond); err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) || errors.Is(err, storage.ErrNotFound) {
			return "", apperr.Wrap(apperr.CodeConflict, "zones were published concurrently, retry the request", err)
		}
		return "", apperr.Upstream("failed to write zones", err)
	}
	r.logger.Info("🗺️  zones published",
		zap.String("styleId", styleID),
		zap.Int("added", added),
		zap.Int("count", len(merged.Zones)))
	return key, nil
}

// mergeZones appends the incoming zones that are not yet published
func mergeZones(current, incoming models.ZoneCatalog) (models.ZoneCatalog, int, error) {
	byName := make(map[string]models.Zone, len(current.Zones))
	for _, z := range current.Zones {
		byName[z.Name] = z
	}

	merged := models.ZoneCatalog{Zones: append([]models.Zone{}, current.Zones...)}
	added := 0
	for _, z := range incoming.Zones {
		published, ok := byName[z.Name]
		if !ok {
			merged.Zones = append(merged.Zones, z)
			added++
			continue
		}
		if published.RectPx != z.RectPx || published.Physical != z.Physical {
			return models.ZoneCatalog{}, 0, apperr.WithMetadata(apperr.CodeConflict,
				fmt.Sprintf("zone %q is already published with different geometry", z.Name),
				map[string]any{"zone": z.Name, "published": published})
		}
	}
	return merged, added, nil
}
