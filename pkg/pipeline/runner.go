package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iongraph/iongraph/pkg/cache"
	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/layout"
	"github.com/iongraph/iongraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching. Both the CLI and the
// HTTP API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer. If keyer is
// nil, a DefaultKeyer is used. If c is nil, a NullCache is used (caching
// disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete decode → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	opts.Logger = opts.Logger.With("trace_id", opts.TraceID)

	result := &Result{Artifacts: make(map[string][]byte), TraceID: opts.TraceID}

	observability.Pipeline().OnDecodeStart(ctx, string(opts.Kind), string(opts.Kind))
	decodeStart := time.Now()
	g, decodeHit, err := r.DecodeWithCacheInfo(ctx, opts)
	result.Stats.ParseTime = time.Since(decodeStart)
	if err != nil {
		observability.Pipeline().OnDecodeComplete(ctx, string(opts.Kind), string(opts.Kind), 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Graph = g
	result.Stats.NodeCount = len(g.Blocks)
	result.CacheInfo.ParseHit = decodeHit
	result.GraphHash = cache.Hash(opts.Input)
	observability.Pipeline().OnDecodeComplete(ctx, string(opts.Kind), string(opts.Kind), len(g.Blocks), result.Stats.ParseTime, nil)

	opts.Logger.Info("decoded pass", "blocks", len(g.Blocks), "duration", result.Stats.ParseTime)

	observability.Pipeline().OnLayoutStart(ctx, string(opts.Kind), len(g.Blocks))
	layoutStart := time.Now()
	doc, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, string(opts.Kind), 0, result.Stats.LayoutTime, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = doc
	result.Stats.LayerCount = len(doc.NodesByLayer)
	result.CacheInfo.LayoutHit = layoutHit
	observability.Pipeline().OnLayoutComplete(ctx, string(opts.Kind), len(doc.NodesByLayer), result.Stats.LayoutTime, nil)

	opts.Logger.Info("computed layout", "layers", len(doc.NodesByLayer), "duration", result.Stats.LayoutTime)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	opts.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	return result, nil
}

// DecodeWithCacheInfo decodes a pass and returns cache hit info. Decoding is
// pure, in-memory, and fast — unlike a dependency Parse stage that fetches
// from a registry, there is nothing here worth round-tripping through the
// cache. The Graph itself is also awkward to serialize (it holds resolved
// pointer cycles between blocks). The hit flag is always false; caching
// starts at the Layout stage, which is where the pipeline's real cost lives.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, opts Options) (*cfg.Graph, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	g, err := Decode(opts)
	if err != nil {
		return nil, false, err
	}
	return g, false, nil
}

// Decode is a convenience wrapper discarding the cache hit info.
func (r *Runner) Decode(ctx context.Context, opts Options) (*cfg.Graph, error) {
	g, _, err := r.DecodeWithCacheInfo(ctx, opts)
	return g, err
}

// GenerateLayoutWithCacheInfo lays out a Graph with caching and returns
// cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g *cfg.Graph, opts Options) (*layout.Document, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphHash := cache.Hash(opts.Input)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if doc, err := layout.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return doc, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	doc, err := GenerateLayout(g, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := layout.Marshal(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return doc, false, nil
}

// GenerateLayout is a convenience wrapper discarding the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g *cfg.Graph, opts Options) (*layout.Document, error) {
	doc, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *layout.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := layout.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(doc, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper discarding the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *layout.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
