package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

// MatrixSource supplies the decoration pricing matrix
type MatrixSource interface {
	LoadMatrix(ctx context.Context) ([]models.PricingMatrixRow, error)
}

// StoreMatrix reads the matrix document from the object store on every call,
// so edits to the document apply to the next request.
type StoreMatrix struct {
	store storage.ObjectStore
	key   string
}

// NewStoreMatrix creates a matrix source backed by key
func NewStoreMatrix(store storage.ObjectStore, key string) *StoreMatrix {
	return &StoreMatrix{store: store, key: key}
}

func (m *StoreMatrix) LoadMatrix(ctx context.Context) ([]models.PricingMatrixRow, error) {
	obj, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, apperr.Upstream("pricing matrix unavailable", err)
	}
	rows, err := DecodeMatrix(obj.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "pricing matrix is malformed", err)
	}
	return rows, nil
}

// StaticMatrix is a fixed in-memory matrix
type StaticMatrix []models.PricingMatrixRow

func (m StaticMatrix) LoadMatrix(context.Context) ([]models.PricingMatrixRow, error) {
	return m, nil
}

// DecodeMatrix accepts either a bare array of rows or an object with a "rows" array
func DecodeMatrix(data []byte) ([]models.PricingMatrixRow, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty matrix document")
	}

	if trimmed[0] == '[' {
		var rows []models.PricingMatrixRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("failed to parse matrix: %w", err)
		}
		return rows, nil
	}

	var doc struct {
		Rows []models.PricingMatrixRow `json:"rows"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse matrix: %w", err)
	}
	return doc.Rows, nil
}
