package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/storage"
)

type stubMirror struct {
	calls int
	err   error
}

func (s *stubMirror) MirrorCalibration(_ context.Context, _ string, _ models.CalibrationUpdate) error {
	s.calls++
	return s.err
}

func TestCalibrationMergeKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	repo := NewCalibrationRepository(storage.NewMemoryStore(""), nil, zap.NewNop())

	if _, err := repo.Merge(ctx, "PC61", models.CalibrationUpdate{DefaultPxPerIn: 40}); err != nil {
		t.Fatalf("merge default: %v", err)
	}
	if _, err := repo.Merge(ctx, "PC61", models.CalibrationUpdate{Size: "xl", PxPerIn: 38}); err != nil {
		t.Fatalf("merge size: %v", err)
	}
	resp, err := repo.Merge(ctx, "PC61", models.CalibrationUpdate{View: "Back", PxPerIn: 42})
	if err != nil {
		t.Fatalf("merge view: %v", err)
	}

	rec := resp.Data
	if rec.DefaultPxPerIn == nil || *rec.DefaultPxPerIn != 40 {
		t.Errorf("default lost: %+v", rec)
	}
	if rec.Sizes["XL"] != 38 {
		t.Errorf("size lost: %+v", rec.Sizes)
	}
	if rec.Views["back"].PxPerIn != 42 {
		t.Errorf("view missing: %+v", rec.Views)
	}
	if resp.Key != "catalog/PC61/scales.json" {
		t.Errorf("key = %s", resp.Key)
	}
	if resp.Mirror.OK {
		t.Errorf("mirror should report not configured")
	}
}

func TestCalibrationMergeRejectsEmptyUpdate(t *testing.T) {
	repo := NewCalibrationRepository(storage.NewMemoryStore(""), nil, zap.NewNop())

	for _, upd := range []models.CalibrationUpdate{
		{},
		{Size: "L"},
		{PxPerIn: 30},
		{View: "front", PxPerIn: -1},
	} {
		_, err := repo.Merge(context.Background(), "PC61", upd)
		if !apperr.IsCode(err, apperr.CodeInvalidInput) {
			t.Errorf("Merge(%+v) err = %v, want invalid input", upd, err)
		}
	}
}

func TestCalibrationMirrorFailureIsReported(t *testing.T) {
	mirror := &stubMirror{err: errors.New("connection reset")}
	repo := NewCalibrationRepository(storage.NewMemoryStore(""), mirror, zap.NewNop())

	resp, err := repo.Merge(context.Background(), "PC61", models.CalibrationUpdate{DefaultPxPerIn: 40})
	if err != nil {
		t.Fatalf("mirror failure must not fail the merge: %v", err)
	}
	if mirror.calls != 1 || resp.Mirror.OK || resp.Mirror.Error == "" {
		t.Fatalf("unexpected mirror result %+v (calls %d)", resp.Mirror, mirror.calls)
	}
}

func TestResolveScalePrecedence(t *testing.T) {
	ctx := context.Background()
	repo := NewCalibrationRepository(storage.NewMemoryStore(""), &stubMirror{}, zap.NewNop())
	repo.Merge(ctx, "PC61", models.CalibrationUpdate{DefaultPxPerIn: 40})
	repo.Merge(ctx, "PC61", models.CalibrationUpdate{Size: "L", PxPerIn: 35})
	repo.Merge(ctx, "PC61", models.CalibrationUpdate{View: "front", PxPerIn: 50})

	tests := []struct {
		view, size string
		want       float64
	}{
		{"front", "L", 50},
		{"back", "large", 35},
		{"back", "S", 40},
		{"", "", 40},
	}
	for _, tt := range tests {
		got, err := repo.ResolveScale(ctx, "PC61", tt.view, tt.size)
		if err != nil {
			t.Fatalf("ResolveScale(%q,%q): %v", tt.view, tt.size, err)
		}
		if got != tt.want {
			t.Errorf("ResolveScale(%q,%q) = %v, want %v", tt.view, tt.size, got, tt.want)
		}
	}
}

func TestResolveScaleMissing(t *testing.T) {
	repo := NewCalibrationRepository(storage.NewMemoryStore(""), nil, zap.NewNop())
	_, err := repo.ResolveScale(context.Background(), "NOPE", "front", "L")
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
