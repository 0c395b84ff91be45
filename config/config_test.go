package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PricingMatrixKey != "config/pfi_decor_matrix_v1.json" {
		t.Errorf("PricingMatrixKey = %q", cfg.PricingMatrixKey)
	}
	if cfg.PricingPrecedence != "first" || cfg.PricingStrict {
		t.Errorf("unexpected pricing defaults: %q strict=%v", cfg.PricingPrecedence, cfg.PricingStrict)
	}
	if cfg.GuardPlacement {
		t.Errorf("guard should default to off")
	}
	if cfg.PresignTTL != 15*time.Minute {
		t.Errorf("PresignTTL = %v", cfg.PresignTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("AWS_BUCKET_NAME", "designs")
	t.Setenv("GUARD_PLACEMENT", "true")
	t.Setenv("PRICING_PRECEDENCE", "cheapest")
	t.Setenv("PRESIGN_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.GuardPlacement || cfg.PricingPrecedence != "cheapest" || cfg.PresignTTL != 2*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"s3 without bucket", map[string]string{"STORAGE_BACKEND": "s3", "AWS_BUCKET_NAME": ""}},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "ftp"}},
		{"unknown precedence", map[string]string{"STORAGE_BACKEND": "memory", "PRICING_PRECEDENCE": "random"}},
		{"bad bool", map[string]string{"STORAGE_BACKEND": "memory", "GUARD_PLACEMENT": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestListenAddr(t *testing.T) {
	for _, port := range []string{"9000", ":9000"} {
		cfg := Config{Port: port}
		if got := cfg.ListenAddr(); got != "0.0.0.0:9000" {
			t.Errorf("ListenAddr(%q) = %q", port, got)
		}
	}
}
