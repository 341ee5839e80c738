package pipeline

import (
	"context"
	"testing"

	"github.com/iongraph/iongraph/pkg/cache"
)

func TestRunner_Execute_ProducesResult(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG}}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Graph == nil {
		t.Fatal("expected non-nil Graph")
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("expected non-empty svg artifact")
	}
	if result.CacheInfo.LayoutHit {
		t.Error("first run should not be a layout cache hit")
	}
}

func TestRunner_Execute_LayoutCacheHitOnSecondRun(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG}}

	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	opts2 := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG}}
	result, err := r.Execute(context.Background(), opts2)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !result.CacheInfo.LayoutHit {
		t.Error("second run with identical input/params should hit the layout cache")
	}
	if !result.CacheInfo.RenderHit {
		t.Error("second run with identical input/format should hit the artifact cache")
	}
}

func TestRunner_Execute_GeneratesTraceIDWhenUnset(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG}}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.TraceID == "" {
		t.Error("expected a generated trace id")
	}
}

func TestRunner_Execute_PreservesCallerTraceID(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG}, TraceID: "req-42"}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.TraceID != "req-42" {
		t.Errorf("TraceID = %q, want %q", result.TraceID, "req-42")
	}
}

func TestRunner_Close_ClosesCache(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
