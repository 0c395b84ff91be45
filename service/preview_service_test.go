package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/repository"
	"directum-studio/storage"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, c)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func near(got color.Color, want color.NRGBA) bool {
	c := color.NRGBAModel.Convert(got).(color.NRGBA)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return diff(c.R, want.R) <= 2 && diff(c.G, want.G) <= 2 && diff(c.B, want.B) <= 2 && diff(c.A, want.A) <= 2
}

type previewFixture struct {
	store     *storage.MemoryStore
	manifests *repository.ManifestRepository
	svc       *PreviewService
}

func newPreviewFixture(t *testing.T) *previewFixture {
	t.Helper()
	logger := zap.NewNop()
	store := storage.NewMemoryStore("https://files.test")
	manifests := repository.NewManifestRepository(store, time.Second, logger)
	logos := NewLogoFetcher(store, nil, LogoFetcherConfig{BucketName: "studio"}, logger)
	svc := NewPreviewService(manifests, NewStyleResolver(nil, logger), NewBaseImageResolver(store, logger),
		logos, store, time.Minute, logger)

	mustPut(t, store, "catalog-images/PC61/PC61-back.png", solidPNG(t, 200, 200, blue))
	mustPut(t, store, "catalog-images/PC61/PC61-front.png", solidPNG(t, 200, 200, white))
	mustPut(t, store, "company/acme.com/logos/l1/logo.png", solidPNG(t, 20, 10, red))
	mustPut(t, store, "company/acme.com/logos/l2/logo.png", []byte("not an image"))

	return &previewFixture{store: store, manifests: manifests, svc: svc}
}

func mustPut(t *testing.T, store storage.ObjectStore, key string, body []byte) {
	t.Helper()
	if _, err := store.Put(context.Background(), key, body, storage.ContentTypePNG); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func (f *previewFixture) saveDesign(t *testing.T, logoRef string, px *models.PlacementBox) {
	t.Helper()
	_, err := f.manifests.PutManifest(context.Background(), "acme.com", "q1", "v1", &models.DesignManifest{
		ProductID: "PC61.NAVY",
		LogoRef:   logoRef,
		Placement: models.Placement{Px: px},
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("PutManifest: %v", err)
	}
}

func TestRenderCompositesLogoIntoBox(t *testing.T) {
	f := newPreviewFixture(t)
	f.saveDesign(t, "s3://studio/company/acme.com/logos/l1/logo.png", &models.PlacementBox{X1: 50, Y1: 50, X2: 90, Y2: 90})

	art, err := f.svc.Render(context.Background(), "acme.com", "q1", "v1", "PC61.NAVY")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if art.PreviewKey != "company/acme.com/quotes/q1/versions/v1/previews/PC61.NAVY.png" {
		t.Fatalf("preview key = %s", art.PreviewKey)
	}
	if art.Base != (models.ImageSize{Width: 200, Height: 200}) || art.Size == 0 || art.PreviewURL == "" {
		t.Fatalf("unexpected artifact %+v", art)
	}

	obj, err := f.store.Get(context.Background(), art.PreviewKey)
	if err != nil {
		t.Fatalf("stored preview: %v", err)
	}
	if len(obj.Body) != art.Size {
		t.Fatalf("size = %d, stored %d", art.Size, len(obj.Body))
	}
	img, err := png.Decode(bytes.NewReader(obj.Body))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	// 20x10 logo contained in a 40x40 box becomes 40x20, centered vertically
	checks := []struct {
		x, y int
		want color.NRGBA
	}{
		{70, 70, red},   // logo body
		{70, 55, white}, // transparent padding above the logo
		{70, 85, white}, // transparent padding below the logo
		{10, 10, white}, // outside the box
	}
	for _, c := range checks {
		if got := img.At(c.x, c.y); !near(got, c.want) {
			t.Errorf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRenderRequiresPlacementBox(t *testing.T) {
	f := newPreviewFixture(t)
	f.saveDesign(t, "company/acme.com/logos/l1/logo.png", nil)

	_, err := f.svc.Render(context.Background(), "acme.com", "q1", "v1", "PC61.NAVY")
	if !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	ok, _ := f.store.Exists(context.Background(), storage.PreviewKey("acme.com", "q1", "v1", "PC61.NAVY"))
	if ok {
		t.Fatalf("no preview should be written")
	}
}

func TestRenderFailureKeepsPreviousPreview(t *testing.T) {
	f := newPreviewFixture(t)
	key := storage.PreviewKey("acme.com", "q1", "v1", "PC61.NAVY")
	mustPut(t, f.store, key, []byte("previous"))
	f.saveDesign(t, "company/acme.com/logos/l2/logo.png", &models.PlacementBox{X1: 0, Y1: 0, X2: 10, Y2: 10})

	if _, err := f.svc.Render(context.Background(), "acme.com", "q1", "v1", "PC61.NAVY"); err == nil {
		t.Fatalf("expected decode failure")
	}
	obj, err := f.store.Get(context.Background(), key)
	if err != nil || string(obj.Body) != "previous" {
		t.Fatalf("previous preview must survive a failed render, got %q, %v", obj.Body, err)
	}
}

func TestRenderMissingDesign(t *testing.T) {
	f := newPreviewFixture(t)
	_, err := f.svc.Render(context.Background(), "acme.com", "q1", "v1", "nope")
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPreviewURL(t *testing.T) {
	f := newPreviewFixture(t)
	ctx := context.Background()

	if _, err := f.svc.PreviewURL(ctx, "acme.com", "q1", "v1", "PC61.NAVY"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not found before render, got %v", err)
	}
	mustPut(t, f.store, storage.PreviewKey("acme.com", "q1", "v1", "PC61.NAVY"), []byte("png"))
	u, err := f.svc.PreviewURL(ctx, "acme.com", "q1", "v1", "PC61.NAVY")
	if err != nil || u == "" {
		t.Fatalf("PreviewURL = %q, %v", u, err)
	}
}

func TestCompositeKeepsBaseOutsideBox(t *testing.T) {
	base := imaging.New(100, 100, white)
	logo := imaging.New(10, 10, red)

	out := Composite(base, logo, models.PlacementBox{X1: 9.6, Y1: 10.4, X2: 30.2, Y2: 29.9})
	if out.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// box rounds to (10,10) with size 21x20; the square logo fills 20x20 offset by 0 or 1
	if !near(out.At(15, 15), red) {
		t.Fatalf("logo not drawn at rounded origin: %v", out.At(15, 15))
	}
	if !near(out.At(5, 5), white) || !near(out.At(50, 50), white) {
		t.Fatalf("base modified outside the box")
	}
}

func TestRankImageKey(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"catalog-images/PC61/PC61-Front.png", 0},
		{"catalog-images/PC61/product-navy.jpg", 1},
		{"catalog-images/PC61/color-swatch.webp", 1},
		{"catalog-images/PC61/left.png", 2},
		{"catalog-images/PC61/back.png", 3},
		{"catalog-images/PC61/detail.png", 9},
	}
	for _, tt := range tests {
		if got := RankImageKey(tt.key); got != tt.want {
			t.Errorf("RankImageKey(%s) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
