package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
)

func TestHTTPPaymentGatewayCreateSession(t *testing.T) {
	var got models.PaymentSessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"url":"https://pay.test/s/1"}`))
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "tok", zap.NewNop())
	session, err := gw.CreateSession(context.Background(), models.PaymentSessionRequest{
		CustomerEmail: "ada@acme.com",
		Lines:         []models.QuoteLine{{ProductID: "a", Qty: 2, Extended: 20}},
		Metadata:      map[string]string{"quoteId": "q1"},
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.URL != "https://pay.test/s/1" {
		t.Fatalf("url = %s", session.URL)
	}
	if got.CustomerEmail != "ada@acme.com" || len(got.Lines) != 1 || got.Metadata["quoteId"] != "q1" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestHTTPPaymentGatewayFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"not json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) }},
		{"no url", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{}`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPPaymentGateway(srv.URL, "", zap.NewNop()).CreateSession(context.Background(), models.PaymentSessionRequest{})
			if !apperr.IsCode(err, apperr.CodeUpstreamUnavailable) {
				t.Fatalf("expected upstream error, got %v", err)
			}
		})
	}

	_, err := NewHTTPPaymentGateway("", "", zap.NewNop()).CreateSession(context.Background(), models.PaymentSessionRequest{})
	if !apperr.IsCode(err, apperr.CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream error when unconfigured, got %v", err)
	}
}
