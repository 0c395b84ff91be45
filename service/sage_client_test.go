package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"directum-studio/apperr"
)

func TestSageClientREST(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/products/123":
			_, _ = w.Write([]byte(`{"imprintAreas":[{"widthIn":3.5,"heightIn":2}],"qty":[1,50,100],"net":["5.10","4.80","4.25"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewSageClient(SageConfig{BaseURL: srv.URL + "/", APIKey: "secret"}, zap.NewNop())

	detail, err := c.ProductDetail(context.Background(), "123")
	if err != nil {
		t.Fatalf("ProductDetail: %v", err)
	}
	if detail.ProductID != "123" || detail.ImprintPhysical == nil || detail.ImprintPhysical.WIn != 3.5 || detail.ImprintPhysical.HIn != 2 {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if bp := detail.Breakpoints; bp == nil || len(bp.Qty) != 3 || bp.Net[2] != 4.25 {
		t.Fatalf("unexpected breakpoints %+v", detail.Breakpoints)
	}

	if _, err := c.ProductDetail(context.Background(), "999"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSageClientConnectAPI(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"product":{"imprintArea":"3\" W x 2\" H"}}`))
	}))
	defer srv.Close()

	c := NewSageClient(SageConfig{BaseURL: srv.URL + "/ConnectAPI/api.dll", AcctID: 42, LoginID: "me", AuthKey: "k"}, zap.NewNop())
	detail, err := c.ProductDetail(context.Background(), "555")
	if err != nil {
		t.Fatalf("ProductDetail: %v", err)
	}
	if got["serviceId"] != float64(105) || got["prodEId"] != "555" {
		t.Fatalf("unexpected request body %v", got)
	}
	auth, _ := got["auth"].(map[string]any)
	if auth["acctId"] != float64(42) || auth["loginId"] != "me" {
		t.Fatalf("unexpected auth %v", auth)
	}
	if detail.ImprintPhysical == nil || detail.ImprintPhysical.WIn != 3 || detail.ImprintPhysical.HIn != 2 {
		t.Fatalf("imprint not parsed: %+v", detail.ImprintPhysical)
	}
}

func TestSageClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSageClient(SageConfig{BaseURL: srv.URL}, zap.NewNop())
	if _, err := c.ProductDetail(context.Background(), "1"); !apperr.IsCode(err, apperr.CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	unconfigured := NewSageClient(SageConfig{}, zap.NewNop())
	if _, err := unconfigured.ProductDetail(context.Background(), "1"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not found without base url, got %v", err)
	}
}

func TestParseSageDetail(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		wantW float64
		wantH float64
		noBP  bool
	}{
		{"w_in keys", `{"imprint":[{"w_in":4,"h_in":3}]}`, 4, 3, true},
		{"width keys", `{"printAreas":[{"width":"5","height":"1.5"}]}`, 5, 1.5, true},
		{"text area", `{"imprintAreas":[{"text":"3.5 x 2.25 in"}]}`, 3.5, 2.25, true},
		{"string area", `{"imprintAreas":["3w x 2h"]}`, 3, 2, true},
		{"nothing usable", `{"qty":[0],"net":[1]}`, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			if err := json.Unmarshal([]byte(tt.raw), &raw); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			d := ParseSageDetail(raw)
			if tt.wantW == 0 && tt.wantH == 0 {
				if d.ImprintPhysical != nil {
					t.Fatalf("expected no imprint, got %+v", d.ImprintPhysical)
				}
			} else if d.ImprintPhysical == nil || d.ImprintPhysical.WIn != tt.wantW || d.ImprintPhysical.HIn != tt.wantH {
				t.Fatalf("imprint = %+v, want %vx%v", d.ImprintPhysical, tt.wantW, tt.wantH)
			}
			if tt.noBP && d.Breakpoints != nil {
				t.Fatalf("expected no breakpoints, got %+v", d.Breakpoints)
			}
		})
	}
}
