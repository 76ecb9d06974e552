package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexgrid/pkg/cache"
	"github.com/matzehuels/hexgrid/pkg/layout"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The cache is wrapped so that its traffic reaches the observability hooks.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.WithHooks(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	records, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Records = records
	result.Stats.Records = len(records)
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded records",
		"records", len(records),
		"duration", result.Stats.LoadTime)

	// Stage 2: Place
	placeStart := time.Now()
	l, hit, err := r.PlaceWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Layout = l
	result.InputHash, _ = cache.HashJSON(records)
	result.Stats.Iterations = l.Stats.Iterations
	result.Stats.PlaceTime = time.Since(placeStart)
	result.CacheInfo.PlaceHit = hit

	r.Logger.Info("placed entities",
		"grid", fmt.Sprintf("%dx%d", l.Columns, l.Rows),
		"iterations", l.Stats.Iterations,
		"cached", hit,
		"duration", result.Stats.PlaceTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input records. Loading is not cached: the input file is
// the source of truth and is hashed after reading.
func (r *Runner) Load(ctx context.Context, opts Options) ([]source.Record, error) {
	r.applyLogger(&opts)
	return Load(ctx, opts)
}

// PlaceWithCacheInfo places records with caching and returns cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, records []source.Record, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlace(); err != nil {
		return layout.Layout{}, false, err
	}

	inputHash, err := cache.HashJSON(records)
	if err != nil {
		return layout.Layout{}, false, fmt.Errorf("hash records: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				return cached, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey)
		}
	}

	l, err := Place(ctx, records, opts)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		}
	}

	return l, false, nil
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, records []source.Record, opts Options) (layout.Layout, error) {
	l, _, err := r.PlaceWithCacheInfo(ctx, records, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutHash, err := cache.HashJSON(l)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, layoutHash, opts); ok {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		}
	}

	return rendered, false, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any one of them is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, layoutHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
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
