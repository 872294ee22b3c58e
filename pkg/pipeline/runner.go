package pipeline

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/cache"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/observability"
	"github.com/wrightline/panelplan/pkg/wall"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
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

// Execute runs the complete resolve → compute → anchor pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Resolve
	resolveStart := time.Now()
	res, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Name = res.Name
	result.Params = res.Params
	result.Edits = res.Edits
	result.Stats.ResolveTime = time.Since(resolveStart)

	// Compute the parameter hash for cache keys and API responses.
	paramsHash, err := cache.HashJSON(res.Params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash parameters")
	}
	result.ParamsHash = paramsHash

	r.Logger.Info("resolved wall",
		"source", opts.Source(),
		"width", res.Params.Width,
		"height", res.Params.Height,
		"duration", result.Stats.ResolveTime)

	// Stage 2: Compute
	computeStart := time.Now()
	sched, computeHit, err := r.ComputeWithCacheInfo(ctx, res.Params, res.Edits, opts)
	if err != nil {
		return nil, err
	}
	result.Schedule = sched
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.PanelCount = len(sched.Panels)
	result.CacheInfo.ComputeHit = computeHit

	r.Logger.Info("computed schedule",
		"mode", sched.Mode,
		"panels", len(sched.Panels),
		"duration", result.Stats.ComputeTime)

	// Stage 3: Anchor
	anchorStart := time.Now()
	placed, anchorHit, err := r.AnchorWithCacheInfo(ctx, res.Params, sched, res.Specs, opts)
	if err != nil {
		return nil, err
	}
	result.Objects = append(slices.Clone(res.Placed), placed...)
	result.Stats.AnchorTime = time.Since(anchorStart)
	result.Stats.ObjectCount = len(result.Objects)
	result.CacheInfo.AnchorHit = anchorHit

	if len(res.Specs) > 0 {
		r.Logger.Info("anchored objects",
			"placed", len(placed),
			"duration", result.Stats.AnchorTime)
	}

	return result, nil
}

// Resolve validates the options and runs the resolve stage.
func (r *Runner) Resolve(ctx context.Context, opts Options) (Resolved, error) {
	if err := opts.ValidateForResolve(); err != nil {
		return Resolved{}, err
	}
	r.applyLogger(&opts)

	source := opts.Source()
	start := time.Now()
	observability.Pipeline().OnResolveStart(ctx, source)

	res, err := Resolve(ctx, opts)

	observability.Pipeline().OnResolveComplete(ctx, source, time.Since(start), err)
	return res, err
}

// ComputeWithCacheInfo generates a schedule with caching and returns cache hit info.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, params wall.Parameters, edits wall.Edits, opts Options) (wall.Schedule, bool, error) {
	mode := string(layout.SelectMode(params, edits))
	start := time.Now()
	observability.Pipeline().OnComputeStart(ctx, mode)

	sched, hit, err := r.computeCached(ctx, params, edits, opts)

	observability.Pipeline().OnComputeComplete(ctx, mode, len(sched.Panels), time.Since(start), err)
	return sched, hit, err
}

func (r *Runner) computeCached(ctx context.Context, params wall.Parameters, edits wall.Edits, opts Options) (wall.Schedule, bool, error) {
	paramsHash, err := cache.HashJSON(params)
	if err != nil {
		return wall.Schedule{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash parameters")
	}
	var keyOpts cache.LayoutKeyOpts
	if edits.HasEdits() {
		editsHash, err := cache.HashJSON(edits)
		if err != nil {
			return wall.Schedule{}, false, errors.Wrap(errors.ErrCodeInternal, err, "hash edits")
		}
		keyOpts.EditsHash = editsHash
	}
	cacheKey := r.Keyer.LayoutKey(paramsHash, keyOpts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached wall.Schedule
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	sched, err := layout.Compute(params, edits)
	if err != nil {
		return wall.Schedule{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(sched); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return sched, false, nil // Cache miss
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, params wall.Parameters, edits wall.Edits, opts Options) (wall.Schedule, error) {
	sched, _, err := r.ComputeWithCacheInfo(ctx, params, edits, opts)
	return sched, err
}

// AnchorWithCacheInfo places objects with caching and returns cache hit info.
// With no specs it is a no-op.
func (r *Runner) AnchorWithCacheInfo(ctx context.Context, params wall.Parameters, sched wall.Schedule, specs []ObjectRequest, opts Options) ([]wall.Object, bool, error) {
	if len(specs) == 0 {
		return nil, false, nil
	}

	start := time.Now()
	observability.Pipeline().OnAnchorStart(ctx, len(specs))

	objects, hit, err := r.anchorCached(ctx, params, sched, specs, opts)

	observability.Pipeline().OnAnchorComplete(ctx, len(specs), time.Since(start), err)
	return objects, hit, err
}

func (r *Runner) anchorCached(ctx context.Context, params wall.Parameters, sched wall.Schedule, specs []ObjectRequest, opts Options) ([]wall.Object, bool, error) {
	layoutHash, err := cache.HashJSON(sched)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash schedule")
	}
	specHash, err := cache.HashJSON(specs)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash placement specs")
	}
	cacheKey := r.Keyer.AnchorKey(layoutHash, cache.AnchorKeyOpts{SpecHash: specHash})

	// Try cache first (unless refresh requested). Cached placements keep
	// the object ids minted on the first run, which is what content
	// addressing promises: same inputs, same objects.
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []wall.Object
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "anchor")
				return cached, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "anchor")
	}

	objects := make([]wall.Object, 0, len(specs))
	for i, spec := range specs {
		obj, err := anchor.Place(spec.Spec, params, sched.Panels, spec.Panels)
		if err != nil {
			return nil, false, errors.Wrap(errors.GetCode(err), err, "object %d", i+1)
		}
		objects = append(objects, obj)
	}

	// Cache the result
	if data, err := json.Marshal(objects); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAnchor)
		observability.Cache().OnCacheSet(ctx, "anchor", len(data))
	}

	return objects, false, nil // Cache miss
}

// Anchor is a convenience wrapper that calls AnchorWithCacheInfo and discards the cache hit info.
func (r *Runner) Anchor(ctx context.Context, params wall.Parameters, sched wall.Schedule, specs []ObjectRequest, opts Options) ([]wall.Object, error) {
	objects, _, err := r.AnchorWithCacheInfo(ctx, params, sched, specs, opts)
	return objects, err
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
