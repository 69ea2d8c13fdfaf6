package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/observability"
	"github.com/matzehuels/sliced/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, images []render.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	pages, pageHeight, layoutHit, err := r.LayoutWithCacheInfo(ctx, images, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Pages = pages
	result.PageHeight = pageHeight
	result.Stats.ImageCount = len(images)
	result.Stats.PageCount = len(pages)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"images", len(images),
		"pages", len(pages),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, images, pages, pageHeight, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the page assignment with caching and returns
// the relative page height and whether the cache was hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, images []render.Image, opts Options) ([]int, float64, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, 0, false, err
	}
	logger := r.logger(opts)
	pageHeight, _ := opts.PageHeight()

	inputHash, err := cache.HashJSON(layoutInputs(images))
	if err != nil {
		return nil, 0, false, fmt.Errorf("hash layout input: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts(pageHeight))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var pages []int
			if err := json.Unmarshal(data, &pages); err == nil && sum(pages) == len(images) {
				observability.Cache().OnCacheHit(ctx, "layout")
				return pages, pageHeight, true, nil
			}
			// undecodable or stale entry, recompute
		} else if err != nil {
			logger.Warn("cache lookup failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(images))
	start := time.Now()
	pages, _, err := ComputeLayout(images, opts)
	hooks.OnLayoutComplete(ctx, len(images), len(pages), time.Since(start), err)
	if err != nil {
		return nil, 0, false, err
	}
	logger.Debug("partitioned images", "pages", pages, "options", opts.String())

	if data, err := json.Marshal(pages); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return pages, pageHeight, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, images []render.Image, opts Options) ([]int, error) {
	pages, _, _, err := r.LayoutWithCacheInfo(ctx, images, opts)
	return pages, err
}

// renderKey fingerprints everything a rendered artifact depends on besides
// the options: image contents, ids, page breaks and the page assignment.
func renderKey(images []render.Image, pages []int) (string, error) {
	type entry struct {
		ID   int    `json:"id"`
		Hash string `json:"h"`
		Wrap bool   `json:"w"`
	}
	entries := make([]entry, len(images))
	for i, img := range images {
		entries[i] = entry{ID: img.ID, Hash: cache.Hash(img.Data), Wrap: img.AllowWrap}
	}
	return cache.HashJSON(struct {
		Images []entry `json:"images"`
		Pages  []int   `json:"pages"`
	}{entries, pages})
}

// RenderWithCacheInfo renders all requested formats with caching and returns
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, images []render.Image, pages []int, pageHeight float64, opts Options) (map[string][][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)

	hash, err := renderKey(images, pages)
	if err != nil {
		return nil, false, fmt.Errorf("hash render input: %w", err)
	}

	artifacts := make(map[string][][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				var files [][]byte
				if err := json.Unmarshal(data, &files); err == nil {
					observability.Cache().OnCacheHit(ctx, "artifact")
					artifacts[format] = files
					continue
				}
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	renderOpts := opts
	renderOpts.Formats = missing
	for _, format := range missing {
		hooks.OnRenderStart(ctx, format)
	}
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, images, pages, pageHeight, renderOpts)
	elapsed := time.Since(start)
	for _, format := range missing {
		hooks.OnRenderComplete(ctx, format, size(rendered[format]), elapsed, err)
	}
	if err != nil {
		return nil, false, err
	}

	for format, files := range rendered {
		artifacts[format] = files
		data, err := json.Marshal(files)
		if err != nil {
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper around RenderWithCacheInfo.
func (r *Runner) Render(ctx context.Context, images []render.Image, pages []int, opts Options) (map[string][][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pageHeight, _ := opts.PageHeight()
	artifacts, _, err := r.RenderWithCacheInfo(ctx, images, pages, pageHeight, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func size(files [][]byte) int {
	n := 0
	for _, f := range files {
		n += len(f)
	}
	return n
}
