// Package storage is the object store behind designs, indexes, previews and catalog documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("object not found")
	// ErrPreconditionFailed is returned when a conditional write loses a race
	ErrPreconditionFailed = errors.New("object precondition failed")
)

const (
	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
)

// Object is a stored blob with its metadata
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	ETag        string
}

// Condition guards a write. IfNoneMatch creates only when the key is absent;
// IfMatch replaces only when the current ETag equals it.
type Condition struct {
	IfMatch     string
	IfNoneMatch bool
}

// ObjectStore is implemented by S3Store and MemoryStore
type ObjectStore interface {
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	PutIf(ctx context.Context, key string, body []byte, contentType string, cond Condition) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	ListPrefixes(ctx context.Context, prefix, delimiter string) ([]string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// GetJSON reads key into v and returns the object's ETag
func GetJSON(ctx context.Context, store ObjectStore, key string, v any) (string, error) {
	obj, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(obj.Body, v); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return obj.ETag, nil
}

// PutJSON writes v as pretty-printed JSON
func PutJSON(ctx context.Context, store ObjectStore, key string, v any) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Put(ctx, key, body, ContentTypeJSON)
}

// PutJSONIf writes v under a write condition
func PutJSONIf(ctx context.Context, store ObjectStore, key string, v any, cond Condition) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.PutIf(ctx, key, body, ContentTypeJSON, cond)
}
