package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process ObjectStore for development and tests.
// It honors write conditions the same way S3 does.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

var _ ObjectStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. baseURL prefixes presigned URLs.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &MemoryStore{objects: make(map[string]Object), baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	obj.Body = append([]byte(nil), obj.Body...)
	return &obj, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return m.PutIf(ctx, key, body, contentType, Condition{})
}

func (m *MemoryStore) PutIf(ctx context.Context, key string, body []byte, contentType string, cond Condition) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.objects[key]
	if cond.IfNoneMatch && exists {
		return "", fmt.Errorf("%s: %w", key, ErrPreconditionFailed)
	}
	if cond.IfMatch != "" && (!exists || current.ETag != cond.IfMatch) {
		if !exists {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", key, ErrPreconditionFailed)
	}

	sum := md5.Sum(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	m.objects[key] = Object{
		Key:         key,
		Body:        append([]byte(nil), body...),
		ContentType: contentType,
		ETag:        etag,
	}
	return etag, nil
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) ListPrefixes(ctx context.Context, prefix, delimiter string) ([]string, error) {
	keys, err := m.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var prefixes []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, prefix)
		i := strings.Index(rest, delimiter)
		if i < 0 {
			continue
		}
		p := prefix + rest[:i+len(delimiter)]
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	return prefixes, nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return m.presigned(key, "GET", ttl), nil
}

func (m *MemoryStore) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	return m.presigned(key, "PUT", ttl), nil
}

func (m *MemoryStore) presigned(key, method string, ttl time.Duration) string {
	q := url.Values{}
	q.Set("method", method)
	q.Set("expires", fmt.Sprintf("%d", int(ttl.Seconds())))
	return fmt.Sprintf("%s/%s?%s", m.baseURL, key, q.Encode())
}
