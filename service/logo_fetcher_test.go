package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

type fakeDrive struct {
	files  map[string][]byte
	images []models.DriveFile
}

func (f fakeDrive) ListImages(context.Context, string) ([]models.DriveFile, error) {
	return f.images, nil
}

func (f fakeDrive) DownloadFile(_ context.Context, fileID string) ([]byte, string, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, "", apperr.NotFound("drive file " + fileID)
	}
	return data, "image/png", nil
}

func newTestLogoFetcher(t *testing.T) (*LogoFetcher, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore("https://files.test")
	if _, err := store.Put(context.Background(), "company/acme.com/logos/l1/logo.png", []byte("stored"), storage.ContentTypePNG); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f := NewLogoFetcher(store, fakeDrive{files: map[string][]byte{"abc": []byte("from-drive")}}, LogoFetcherConfig{
		BucketName: "studio",
		BucketURL:  "https://studio.s3.amazonaws.com",
		PresignTTL: time.Minute,
	}, zap.NewNop())
	return f, store
}

func TestLogoFetcherParse(t *testing.T) {
	f, _ := newTestLogoFetcher(t)
	tests := []struct {
		ref     string
		want    logoRef
		wantErr bool
	}{
		{"s3://studio/company/acme.com/logos/l1/logo.png", logoRef{storeKey: "company/acme.com/logos/l1/logo.png"}, false},
		{"company/acme.com/logos/l1/logo.png", logoRef{storeKey: "company/acme.com/logos/l1/logo.png"}, false},
		{"https://studio.s3.amazonaws.com/company/x.png", logoRef{storeKey: "company/x.png"}, false},
		{"drive://abc", logoRef{driveID: "abc"}, false},
		{"https://cdn.example.com/logo.png", logoRef{url: "https://cdn.example.com/logo.png"}, false},
		{"s3://other-bucket/logo.png", logoRef{}, true},
		{"s3://studio", logoRef{}, true},
		{"drive://", logoRef{}, true},
		{"ftp://host/logo.png", logoRef{}, true},
		{"", logoRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := f.parse(tt.ref)
			if tt.wantErr {
				if !apperr.IsCode(err, apperr.CodeInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parse = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLogoFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	f, _ := newTestLogoFetcher(t)
	ctx := context.Background()

	tests := []struct {
		ref  string
		want string
	}{
		{"s3://studio/company/acme.com/logos/l1/logo.png", "stored"},
		{"company/acme.com/logos/l1/logo.png", "stored"},
		{"drive://abc", "from-drive"},
		{srv.URL + "/logo.png", "remote"},
	}
	for _, tt := range tests {
		data, err := f.Fetch(ctx, tt.ref)
		if err != nil {
			t.Fatalf("Fetch(%s): %v", tt.ref, err)
		}
		if string(data) != tt.want {
			t.Fatalf("Fetch(%s) = %q, want %q", tt.ref, data, tt.want)
		}
	}

	if _, err := f.Fetch(ctx, srv.URL+"/missing.png"); !apperr.IsCode(err, apperr.CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream error for 404, got %v", err)
	}
	if _, err := f.Fetch(ctx, "company/acme.com/logos/none.png"); !apperr.IsCode(err, apperr.CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream error for missing key, got %v", err)
	}
}

func TestLogoFetcherResolveURL(t *testing.T) {
	f, _ := newTestLogoFetcher(t)
	ctx := context.Background()

	u, err := f.ResolveURL(ctx, "s3://studio/company/acme.com/logos/l1/logo.png")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if !strings.HasPrefix(u, "https://files.test/company/acme.com/logos/l1/logo.png?") {
		t.Fatalf("expected presigned url, got %s", u)
	}

	u, _ = f.ResolveURL(ctx, "drive://abc")
	if u != "https://drive.google.com/uc?id=abc" {
		t.Fatalf("drive url = %s", u)
	}

	u, _ = f.ResolveURL(ctx, "https://cdn.example.com/logo.png")
	if u != "https://cdn.example.com/logo.png" {
		t.Fatalf("public url should pass through, got %s", u)
	}
}
