package utils

import "testing"

func TestRound(t *testing.T) {
	if got := Round2(2.005000001); got != 2.01 {
		t.Errorf("Round2 = %v, want 2.01", got)
	}
	if got := Round3(1.23456); got != 1.235 {
		t.Errorf("Round3 = %v, want 1.235", got)
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234567.891, "$1,234,567.89"},
		{-999.99, "-$999.99"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseImprintInches(t *testing.T) {
	tests := []struct {
		in     string
		w, h   float64
		wantOK bool
	}{
		{`3" W x 2" H`, 3, 2, true},
		{"3.5 x 2.25 in", 3.5, 2.25, true},
		{"3w x 2h", 3, 2, true},
		{"12 × 16", 12, 16, true},
		{"full front", 0, 0, false},
		{"0 x 4", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		got := ParseImprintInches(tt.in)
		if !tt.wantOK {
			if got != nil {
				t.Errorf("ParseImprintInches(%q) = %+v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.WIn != tt.w || got.HIn != tt.h {
			t.Errorf("ParseImprintInches(%q) = %+v, want %vx%v", tt.in, got, tt.w, tt.h)
		}
	}
}

func TestCompanyDomainFromEmail(t *testing.T) {
	if got := CompanyDomainFromEmail("  Jane@Acme.COM "); got != "acme.com" {
		t.Errorf("got %q", got)
	}
	if got := CompanyDomainFromEmail("nobody"); got != "unknown.local" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeSize(t *testing.T) {
	if got := NormalizeSize(" xlarge "); got != "XL" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeView(" Front "); got != "front" {
		t.Errorf("got %q", got)
	}
}
