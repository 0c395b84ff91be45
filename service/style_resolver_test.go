package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeStyles map[string]string

func (f fakeStyles) StyleIDForProduct(_ context.Context, productID string) (string, error) {
	if s, ok := f[productID]; ok {
		return s, nil
	}
	return "", errors.New("no rows")
}

func TestStyleResolver(t *testing.T) {
	r := NewStyleResolver(fakeStyles{"12345": "PC61"}, zap.NewNop())

	tests := []struct {
		productID string
		want      string
	}{
		{"12345", "PC61"},
		{"PC61.NAVY", "PC61"},
		{"G500 Heavy", "G500"},
		{"ST350-RED", "ST350-RED"},
		{"#bad", ""},
	}
	for _, tt := range tests {
		if got := r.StyleID(context.Background(), tt.productID); got != tt.want {
			t.Errorf("StyleID(%q) = %q, want %q", tt.productID, got, tt.want)
		}
	}

	if got := NewStyleResolver(nil, zap.NewNop()).StyleID(context.Background(), "12345"); got != "12345" {
		t.Errorf("without a catalog the product id prefix is used, got %q", got)
	}
}
