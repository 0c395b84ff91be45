package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/storage"
)

const maxLogoBytes = 25 << 20

// LogoSource loads logo bytes and produces viewable URLs for logo references
type LogoSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// LogoFetcherConfig identifies which references point at our own bucket
type LogoFetcherConfig struct {
	BucketName string
	BucketURL  string
	PresignTTL time.Duration
}

// LogoFetcher resolves logo references. Supported forms:
//
//	s3://<bucket>/<key>       our bucket, read through the object store
//	company/<domain>/...      a bare key in our bucket
//	https://<bucket host>/... our bucket addressed by URL
//	drive://<fileId>          a Google Drive file
//	http(s)://...             any other public URL
type LogoFetcher struct {
	store      storage.ObjectStore
	drive      DriveServiceInterface
	httpClient *http.Client
	cfg        LogoFetcherConfig
	bucketHost string
	logger     *zap.Logger
}

var _ LogoSource = (*LogoFetcher)(nil)

// NewLogoFetcher creates a new LogoFetcher. drive may be nil.
func NewLogoFetcher(store storage.ObjectStore, drive DriveServiceInterface, cfg LogoFetcherConfig, logger *zap.Logger) *LogoFetcher {
	var host string
	if u, err := url.Parse(cfg.BucketURL); err == nil {
		host = strings.ToLower(u.Host)
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	return &LogoFetcher{
		store:      store,
		drive:      drive,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		bucketHost: host,
		logger:     logger,
	}
}

type logoRef struct {
	storeKey string
	driveID  string
	url      string
}

func (f *LogoFetcher) parse(ref string) (logoRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return logoRef{}, apperr.InvalidInput("logoRef required")
	}

	if id, ok := strings.CutPrefix(ref, "drive://"); ok {
		if id == "" {
			return logoRef{}, apperr.InvalidInput("drive logoRef has no file id")
		}
		return logoRef{driveID: id}, nil
	}

	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || key == "" {
			return logoRef{}, apperr.InvalidInput("s3 logoRef must be s3://bucket/key")
		}
		if f.cfg.BucketName != "" && bucket != f.cfg.BucketName {
			return logoRef{}, apperr.InvalidInput(fmt.Sprintf("logo bucket %s is not readable", bucket))
		}
		return logoRef{storeKey: key}, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return logoRef{}, apperr.InvalidInput("logoRef is not a valid reference")
	}
	switch u.Scheme {
	case "http", "https":
		if f.bucketHost != "" && strings.EqualFold(u.Host, f.bucketHost) {
			return logoRef{storeKey: strings.TrimPrefix(u.Path, "/")}, nil
		}
		return logoRef{url: ref}, nil
	case "":
		return logoRef{storeKey: strings.TrimPrefix(ref, "/")}, nil
	}
	return logoRef{}, apperr.InvalidInput(fmt.Sprintf("unsupported logoRef scheme %q", u.Scheme))
}

// Fetch returns the raw logo bytes
func (f *LogoFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	r, err := f.parse(ref)
	if err != nil {
		return nil, err
	}

	switch {
	case r.storeKey != "":
		obj, err := f.store.Get(ctx, r.storeKey)
		if err != nil {
			return nil, apperr.Upstream("failed to read logo", err)
		}
		return obj.Body, nil
	case r.driveID != "":
		if f.drive == nil {
			return nil, apperr.Upstream("drive logos are not configured", fmt.Errorf("no drive credentials"))
		}
		data, _, err := f.drive.DownloadFile(ctx, r.driveID)
		if err != nil {
			return nil, apperr.Upstream("failed to download logo from drive", err)
		}
		return data, nil
	default:
		return f.get(ctx, r.url)
	}
}

// ResolveURL returns a URL a browser or print shop can open. Bucket objects are presigned.
func (f *LogoFetcher) ResolveURL(ctx context.Context, ref string) (string, error) {
	r, err := f.parse(ref)
	if err != nil {
		return "", err
	}
	switch {
	case r.storeKey != "":
		u, err := f.store.PresignGet(ctx, r.storeKey, f.cfg.PresignTTL)
		if err != nil {
			return "", apperr.Upstream("failed to presign logo", err)
		}
		return u, nil
	case r.driveID != "":
		return fmt.Sprintf("https://drive.google.com/uc?id=%s", url.QueryEscape(r.driveID)), nil
	default:
		return r.url, nil
	}
}

func (f *LogoFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.InvalidInput("logoRef is not a valid URL")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("failed to fetch logo", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("failed to fetch logo", fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, apperr.Upstream("failed to read logo", err)
	}
	if len(data) > maxLogoBytes {
		return nil, apperr.InvalidInput("logo is too large")
	}
	return data, nil
}
