package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
	"directum-studio/utils"
)

const customerLogoTTL = 5 * time.Minute

var (
	logoExtRe      = regexp.MustCompile(`(?i)\.(png|jpe?g|svg)$`)
	endsWithLogoRe = regexp.MustCompile(`(?i)_logo\.(png|jpe?g|svg)$`)
)

// LogoService hands out upload URLs for customer logos and finds the stored one
type LogoService struct {
	store      storage.ObjectStore
	bucketURL  string
	presignTTL time.Duration
	logger     *zap.Logger
}

// Ensure LogoService implements LogoServiceInterface
var _ LogoServiceInterface = (*LogoService)(nil)

// NewLogoService creates a new LogoService
func NewLogoService(store storage.ObjectStore, bucketURL string, presignTTL time.Duration, logger *zap.Logger) *LogoService {
	return &LogoService{
		store:      store,
		bucketURL:  strings.TrimSuffix(bucketURL, "/"),
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// PresignUpload returns a PUT URL for a new logo under the customer's company
func (s *LogoService) PresignUpload(ctx context.Context, req models.LogoPresignRequest) (*models.LogoPresignResponse, error) {
	if req.Email == "" || req.LogoID == "" || req.Filename == "" || req.ContentType == "" {
		return nil, apperr.InvalidInput("email, logoId, filename, contentType required")
	}
	if !storage.ValidSegment(req.LogoID) {
		return nil, apperr.InvalidInput("invalid logoId")
	}

	domain := utils.CompanyDomainFromEmail(req.Email)
	key := storage.LogoKey(domain, req.LogoID, req.Filename)

	putURL, err := s.store.PresignPut(ctx, key, req.ContentType, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign logo upload: %w", err)
	}
	getURL, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign logo read: %w", err)
	}

	s.logger.Info("🔑 logo upload presigned", zap.String("domain", domain), zap.String("key", key))
	return &models.LogoPresignResponse{
		Key:       key,
		URL:       putURL,
		PublicURL: s.bucketURL + "/" + key,
		GetURL:    getURL,
	}, nil
}

// CustomerLogo picks the company's logo among its uploads. A file named after the
// company wins, then any "<company>..._logo" file, then any "_logo" file, then
// the last key in listing order.
func (s *LogoService) CustomerLogo(ctx context.Context, email string) (*models.CustomerLogo, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperr.InvalidInput("email required")
	}
	domain := utils.CompanyDomainFromEmail(email)

	keys, err := s.store.List(ctx, storage.LogosPrefix(domain))
	if err != nil {
		return nil, apperr.Upstream("failed to list logos", err)
	}

	var images []string
	for _, k := range keys {
		if strings.HasSuffix(k, "/") || !logoExtRe.MatchString(k) {
			continue
		}
		images = append(images, k)
	}
	if len(images) == 0 {
		return nil, apperr.NotFound("no logo found")
	}
	sort.Strings(images)

	key := PickCompanyLogo(domain, images)
	url, err := s.store.PresignGet(ctx, key, customerLogoTTL)
	if err != nil {
		s.logger.Warn("⚠️  logo presign failed, falling back to bucket url", zap.String("key", key), zap.Error(err))
		url = s.bucketURL + "/" + key
	}

	return &models.CustomerLogo{
		HasLogo:  true,
		LogoURL:  url,
		Key:      key,
		Filename: path.Base(key),
	}, nil
}

// PickCompanyLogo applies the filename preference to keys, which must be non-empty
func PickCompanyLogo(domain string, keys []string) string {
	base := regexp.QuoteMeta(strings.ToLower(strings.SplitN(domain, ".", 2)[0]))
	exactRe := regexp.MustCompile(`(?i)^` + base + `(_logo)?\.(png|jpe?g|svg)$`)
	containsRe := regexp.MustCompile(`(?i)` + base + `.*_logo\.(png|jpe?g|svg)$`)

	for _, re := range []*regexp.Regexp{exactRe, containsRe, endsWithLogoRe} {
		for i := len(keys) - 1; i >= 0; i-- {
			if re.MatchString(path.Base(keys[i])) {
				return keys[i]
			}
		}
	}
	return keys[len(keys)-1]
}
