package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

// IndexDefaults seeds a version index that does not exist yet
type IndexDefaults struct {
	Name      string
	CreatedBy string
}

// ManifestRepository stores design manifests and version indexes
type ManifestRepository struct {
	store           storage.ObjectStore
	logger          *zap.Logger
	retryMaxElapsed time.Duration
	now             func() time.Time
}

// Ensure ManifestRepository implements ManifestRepositoryInterface
var _ ManifestRepositoryInterface = (*ManifestRepository)(nil)

// NewManifestRepository creates a new ManifestRepository. retryMaxElapsed bounds
// how long an index update keeps retrying lost races.
func NewManifestRepository(store storage.ObjectStore, retryMaxElapsed time.Duration, logger *zap.Logger) *ManifestRepository {
	if retryMaxElapsed <= 0 {
		retryMaxElapsed = 3 * time.Second
	}
	return &ManifestRepository{
		store:           store,
		logger:          logger,
		retryMaxElapsed: retryMaxElapsed,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// PutManifest writes a design manifest, replacing any previous one for the product
func (r *ManifestRepository) PutManifest(ctx context.Context, domain, quoteID, versionID string, m *models.DesignManifest) (string, error) {
	key := storage.DesignKey(domain, quoteID, versionID, m.ProductID)
	if _, err := storage.PutJSON(ctx, r.store, key, m); err != nil {
		return "", apperr.Upstream("failed to write design", err)
	}
	return key, nil
}

// GetManifest reads a design manifest
func (r *ManifestRepository) GetManifest(ctx context.Context, domain, quoteID, versionID, productID string) (*models.DesignManifest, error) {
	var m models.DesignManifest
	if _, err := storage.GetJSON(ctx, r.store, storage.DesignKey(domain, quoteID, versionID, productID), &m); err != nil {
		return nil, storeError("design for product "+productID, err)
	}
	return &m, nil
}

// ListManifests returns every manifest of a version ordered by product id
func (r *ManifestRepository) ListManifests(ctx context.Context, domain, quoteID, versionID string) ([]models.DesignManifest, error) {
	keys, err := r.store.List(ctx, storage.DesignsPrefix(domain, quoteID, versionID))
	if err != nil {
		return nil, apperr.Upstream("failed to list designs", err)
	}
	sort.Strings(keys)

	manifests := make([]models.DesignManifest, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		var m models.DesignManifest
		if _, err := storage.GetJSON(ctx, r.store, key, &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, storeError(key, err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// GetIndex reads a version index
func (r *ManifestRepository) GetIndex(ctx context.Context, domain, quoteID, versionID string) (*models.VersionIndex, error) {
	var idx models.VersionIndex
	if _, err := storage.GetJSON(ctx, r.store, storage.IndexKey(domain, quoteID, versionID), &idx); err != nil {
		return nil, storeError("version "+versionID, err)
	}
	return &idx, nil
}

// CreateIndex writes a fresh index and fails with Conflict when the version already exists
func (r *ManifestRepository) CreateIndex(ctx context.Context, domain, quoteID, versionID string, defaults IndexDefaults) (*models.VersionIndex, error) {
	idx := r.newIndex(versionID, defaults)
	_, err := storage.PutJSONIf(ctx, r.store, storage.IndexKey(domain, quoteID, versionID), idx, storage.Condition{IfNoneMatch: true})
	if errors.Is(err, storage.ErrPreconditionFailed) {
		return nil, apperr.Wrap(apperr.CodeConflict, fmt.Sprintf("version %s already exists", versionID), err)
	}
	if err != nil {
		return nil, apperr.Upstream("failed to write version index", err)
	}
	return idx, nil
}

// UpsertIndexEntry replaces or appends the product's entry in the version index.
// The write is conditional on the ETag read; a lost race re-reads and retries
// with exponential backoff. When retries run out the error has CodeConflict.
func (r *ManifestRepository) UpsertIndexEntry(ctx context.Context, domain, quoteID, versionID string, entry models.VersionEntry, defaults IndexDefaults) (*models.VersionIndex, error) {
	key := storage.IndexKey(domain, quoteID, versionID)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = r.retryMaxElapsed

	var result *models.VersionIndex
	attempt := func() error {
		var idx models.VersionIndex
		etag, err := storage.GetJSON(ctx, r.store, key, &idx)
		cond := storage.Condition{IfMatch: etag}
		switch {
		case errors.Is(err, storage.ErrNotFound):
			idx = *r.newIndex(versionID, defaults)
			cond = storage.Condition{IfNoneMatch: true}
		case err != nil:
			return backoff.Permanent(apperr.Upstream("failed to read version index", err))
		}

		upsertEntry(&idx, entry)

		_, err = storage.PutJSONIf(ctx, r.store, key, &idx, cond)
		if errors.Is(err, storage.ErrPreconditionFailed) || errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err != nil {
			return backoff.Permanent(apperr.Upstream("failed to write version index", err))
		}
		result = &idx
		return nil
	}

	err := backoff.RetryNotify(attempt, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		r.logger.Debug("🔁 version index changed underneath, retrying",
			zap.String("key", key),
			zap.Duration("next_attempt_in", next))
	})
	if err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) || errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("⚠️  version index update gave up", zap.String("key", key), zap.Error(err))
			return nil, apperr.Wrap(apperr.CodeConflict, "version index is being updated concurrently, retry the request", err)
		}
		return nil, err
	}
	return result, nil
}

// ListVersions returns every version of a quote, oldest first
func (r *ManifestRepository) ListVersions(ctx context.Context, domain, quoteID string) ([]models.VersionSummary, error) {
	prefixes, err := r.store.ListPrefixes(ctx, storage.VersionsPrefix(domain, quoteID), "/")
	if err != nil {
		return nil, apperr.Upstream("failed to list versions", err)
	}

	versions := make([]models.VersionSummary, 0, len(prefixes))
	for _, p := range prefixes {
		versionID := storage.LastSegment(p)
		summary := models.VersionSummary{VersionID: versionID, Name: versionID}
		idx, err := r.GetIndex(ctx, domain, quoteID, versionID)
		switch {
		case err == nil:
			summary.Name = idx.Name
			summary.CreatedBy = idx.CreatedBy
			summary.CreatedAt = idx.CreatedAt
			summary.ProductCount = len(idx.Products)
		case !isNotFound(err):
			return nil, err
		}
		versions = append(versions, summary)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].CreatedAt.Before(versions[j].CreatedAt)
	})
	return versions, nil
}

// ListVersionsContainingProduct returns the ids of versions holding a design for productID
func (r *ManifestRepository) ListVersionsContainingProduct(ctx context.Context, domain, quoteID, productID string) ([]string, error) {
	prefixes, err := r.store.ListPrefixes(ctx, storage.VersionsPrefix(domain, quoteID), "/")
	if err != nil {
		return nil, apperr.Upstream("failed to list versions", err)
	}

	var ids []string
	for _, p := range prefixes {
		versionID := storage.LastSegment(p)
		ok, err := r.store.Exists(ctx, storage.DesignKey(domain, quoteID, versionID, productID))
		if err != nil {
			return nil, apperr.Upstream("failed to check design", err)
		}
		if ok {
			ids = append(ids, versionID)
		}
	}
	return ids, nil
}

func (r *ManifestRepository) newIndex(versionID string, defaults IndexDefaults) *models.VersionIndex {
	name := defaults.Name
	if name == "" {
		name = versionID
	}
	return &models.VersionIndex{
		Name:      name,
		CreatedBy: defaults.CreatedBy,
		CreatedAt: r.now(),
		Products:  []models.VersionEntry{},
	}
}

func upsertEntry(idx *models.VersionIndex, entry models.VersionEntry) {
	for i := range idx.Products {
		if idx.Products[i].ProductID == entry.ProductID {
			idx.Products[i] = entry
			return
		}
	}
	idx.Products = append(idx.Products, entry)
}
