package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/repository"
	"directum-studio/storage"
)

type fakePricer struct {
	calls int
}

func (f *fakePricer) PriceQuote(_ context.Context, lines []models.QuoteLineRequest) ([]models.QuoteLine, error) {
	f.calls++
	out := make([]models.QuoteLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.QuoteLine{ProductID: l.ProductID, Qty: l.Qty, Unit: 10, Extended: float64(l.Qty) * 10})
	}
	return out, nil
}

type fakeGateway struct {
	requests []models.PaymentSessionRequest
}

func (f *fakeGateway) CreateSession(_ context.Context, req models.PaymentSessionRequest) (*models.PaymentSession, error) {
	f.requests = append(f.requests, req)
	return &models.PaymentSession{URL: "https://pay.test/session/1"}, nil
}

func seedManifest(t *testing.T, repo *repository.ManifestRepository, versionID, productID string, p models.Placement) {
	t.Helper()
	_, err := repo.PutManifest(context.Background(), "acme.com", "q1", versionID, &models.DesignManifest{
		ProductID: productID,
		LogoRef:   "company/acme.com/logos/l1/logo.png",
		Placement: p,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed manifest: %v", err)
	}
}

func specPlacement(trust string) models.Placement {
	px := 50.0
	return models.Placement{
		Px:          &models.PlacementBox{X1: 100, Y1: 100, X2: 250, Y2: 250},
		PxPerIn:     &px,
		PrinterSpec: &models.PrintSpec{Unit: "in", PxPerIn: 50, ArtWidthIn: 3, ArtHeightIn: 3},
		SpecSource:  models.SpecSourceZone,
		SpecTrust:   trust,
	}
}

func newCheckoutFixture(t *testing.T, guard GuardConfig) (*CheckoutService, *repository.ManifestRepository, *fakeGateway) {
	t.Helper()
	repo := repository.NewManifestRepository(storage.NewMemoryStore(""), time.Second, zap.NewNop())
	gw := &fakeGateway{}
	return NewCheckoutService(repo, &fakePricer{}, gw, guard, zap.NewNop()), repo, gw
}

func TestValidateLineReasons(t *testing.T) {
	svc, repo, _ := newCheckoutFixture(t, GuardConfig{Enabled: true, RejectClientSpecs: true})
	seedManifest(t, repo, "v1", "with-spec", specPlacement(models.SpecTrustServer))
	seedManifest(t, repo, "v1", "no-spec", models.Placement{Px: &models.PlacementBox{X1: 0, Y1: 0, X2: 10, Y2: 10}})
	seedManifest(t, repo, "v1", "spec-without-scale", models.Placement{PrinterSpec: &models.PrintSpec{ArtWidthIn: 3}})
	seedManifest(t, repo, "v1", "client-spec", specPlacement(models.SpecTrustClient))

	tests := []struct {
		name      string
		versionID string
		productID string
		wantOK    bool
		reason    string
	}{
		{"complete spec passes", "v1", "with-spec", true, ""},
		{"no version", "", "with-spec", false, models.ReasonMissingDesignVersion},
		{"no manifest", "v1", "unknown", false, models.ReasonDesignNotFound},
		{"no spec", "v1", "no-spec", false, models.ReasonMissingPrinterSpec},
		{"spec without scale", "v1", "spec-without-scale", false, models.ReasonMissingPrinterSpec},
		{"client spec rejected", "v1", "client-spec", false, models.ReasonUntrustedPrinterSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := svc.ValidateLine(context.Background(), "acme.com", "q1", tt.versionID, tt.productID)
			if err != nil {
				t.Fatalf("ValidateLine: %v", err)
			}
			if v.OK != tt.wantOK || v.Reason != tt.reason {
				t.Fatalf("verdict = %+v, want ok=%v reason=%q", v, tt.wantOK, tt.reason)
			}
		})
	}
}

func TestValidateLineAcceptsClientSpecByDefault(t *testing.T) {
	svc, repo, _ := newCheckoutFixture(t, GuardConfig{Enabled: true})
	seedManifest(t, repo, "v1", "client-spec", specPlacement(models.SpecTrustClient))

	v, err := svc.ValidateLine(context.Background(), "acme.com", "q1", "v1", "client-spec")
	if err != nil || !v.OK {
		t.Fatalf("verdict = %+v, %v", v, err)
	}
}

func checkoutRequest(lines ...models.CheckoutLine) models.CheckoutRequest {
	return models.CheckoutRequest{
		CustomerInfo: models.CustomerInfo{Name: "Ada", Email: "ada@acme.com", Company: "Acme"},
		Products:     lines,
		QuoteID:      "q1",
		VersionID:    "v1",
	}
}

func TestCheckoutRejectedLineNeverReachesPayment(t *testing.T) {
	svc, repo, gw := newCheckoutFixture(t, GuardConfig{Enabled: true})
	seedManifest(t, repo, "v1", "good", specPlacement(models.SpecTrustServer))

	res, err := svc.Checkout(context.Background(), checkoutRequest(
		models.CheckoutLine{ProductID: "good", Quantity: 10},
		models.CheckoutLine{ProductID: "missing", Quantity: 5},
	))
	if !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if len(gw.requests) != 0 {
		t.Fatalf("payment must not be called when a line is rejected")
	}
	if res == nil || len(res.Verdicts) != 2 || res.Verdicts[0].OK != true || res.Verdicts[1].Reason != models.ReasonDesignNotFound {
		t.Fatalf("unexpected verdicts %+v", res)
	}
}

func TestCheckoutApprovedCreatesSession(t *testing.T) {
	svc, repo, gw := newCheckoutFixture(t, GuardConfig{Enabled: true})
	seedManifest(t, repo, "v1", "a", specPlacement(models.SpecTrustServer))
	seedManifest(t, repo, "v2", "b", specPlacement(models.SpecTrustServer))

	res, err := svc.Checkout(context.Background(), checkoutRequest(
		models.CheckoutLine{ProductID: "a", Quantity: 10},
		models.CheckoutLine{ProductID: "b", Quantity: 2, VersionID: "v2"},
	))
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.URL != "https://pay.test/session/1" {
		t.Fatalf("url = %q", res.URL)
	}
	if len(gw.requests) != 1 {
		t.Fatalf("expected one payment call, got %d", len(gw.requests))
	}

	req := gw.requests[0]
	if len(req.Lines) != 2 || req.Lines[0].Extended != 100 {
		t.Fatalf("lines not priced: %+v", req.Lines)
	}
	var versions map[string]string
	if err := json.Unmarshal([]byte(req.Metadata["versions"]), &versions); err != nil {
		t.Fatalf("versions metadata: %v", err)
	}
	if versions["a"] != "v1" || versions["b"] != "v2" {
		t.Fatalf("versions = %v", versions)
	}
	if req.Metadata["companyDomain"] != "acme.com" {
		t.Fatalf("metadata = %v", req.Metadata)
	}
}

func TestCheckoutGuardDisabledAllowsLinesWithoutDesigns(t *testing.T) {
	tests := []struct {
		name       string
		customer   models.CustomerInfo
		wantDomain string
	}{
		{"with email", models.CustomerInfo{Email: "ada@acme.com"}, "acme.com"},
		{"without customer info", models.CustomerInfo{}, "unknown.local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, gw := newCheckoutFixture(t, GuardConfig{})
			req := checkoutRequest(models.CheckoutLine{ProductID: "PC61", Quantity: 2})
			req.CustomerInfo = tt.customer

			res, err := svc.Checkout(context.Background(), req)
			if err != nil {
				t.Fatalf("Checkout: %v", err)
			}
			if res.URL == "" || len(gw.requests) != 1 {
				t.Fatalf("expected payment session, got %+v", res)
			}
			if got := gw.requests[0].Metadata["companyDomain"]; got != tt.wantDomain {
				t.Fatalf("companyDomain = %q, want %q", got, tt.wantDomain)
			}
		})
	}
}

func TestCheckoutDefaultQuoteID(t *testing.T) {
	svc, repo, gw := newCheckoutFixture(t, GuardConfig{Enabled: true})
	_, err := repo.PutManifest(context.Background(), "acme.com", models.DefaultQuoteID, "v1", &models.DesignManifest{
		ProductID: "a",
		LogoRef:   "company/acme.com/logos/l1/logo.png",
		Placement: specPlacement(models.SpecTrustServer),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed manifest: %v", err)
	}

	req := checkoutRequest(models.CheckoutLine{ProductID: "a", Quantity: 1})
	req.QuoteID = ""
	if _, err := svc.Checkout(context.Background(), req); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(gw.requests) != 1 {
		t.Fatalf("expected one payment call, got %d", len(gw.requests))
	}
}

func TestCheckoutRequiresProductsAndEmail(t *testing.T) {
	svc, _, _ := newCheckoutFixture(t, GuardConfig{Enabled: true})

	if _, err := svc.Checkout(context.Background(), checkoutRequest()); !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected invalid input for empty cart, got %v", err)
	}
	req := checkoutRequest(models.CheckoutLine{ProductID: "a", Quantity: 1})
	req.CustomerInfo.Email = ""
	if _, err := svc.Checkout(context.Background(), req); !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Fatalf("expected invalid input without email, got %v", err)
	}
}
