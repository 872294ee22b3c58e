// Package pkg provides the core libraries for Panelplan wainscoting layout.
//
// # Overview
//
// Panelplan turns wall dimensions into wainscoting panel schedules: evenly
// divided panels, carpenter-friendly shop dimensions, per-panel edits that
// survive recomputation, and fixtures anchored to the finished layout. The
// pkg directory is organized into five main areas:
//
//  1. [wall], [units] - Domain model (parameters, panels, edits, shop dimensions)
//  2. [layout], [anchor] - Layout strategies, split edits, object placement
//  3. [manifest], [io] - TOML wall manifests and JSON layout hand-off files
//  4. [pipeline], [cache], [recompute] - Orchestration, result caching, recompute coordination
//  5. [wallstate] - Stored walls (file, memory, Redis, MongoDB backends)
//
// # Architecture
//
// The typical data flow through Panelplan:
//
//	Wall manifest / stored wall / raw parameters
//	         ↓
//	    [pipeline] package (resolve and validate inputs)
//	         ↓
//	    [layout] package (strategy selection, split replay, invariants)
//	         ↓
//	    [anchor] package (object placement against the schedule)
//	         ↓
//	    JSON hand-off / terminal tables / HTTP API
//
// # Quick Start
//
// Load a manifest and compute its panel schedule:
//
//	import (
//	    "fmt"
//
//	    "github.com/wrightline/panelplan/pkg/layout"
//	    "github.com/wrightline/panelplan/pkg/manifest"
//	)
//
//	// 1. Load the wall manifest
//	m, _ := manifest.Load("den.toml")
//
//	// 2. Resolve parameters and replay saved edits
//	params := m.Params()
//	edits, _ := m.Edits(params)
//
//	// 3. Compute the schedule
//	sched, _ := layout.Compute(params, edits)
//
//	for _, p := range sched.Panels {
//	    fmt.Printf("panel %d: %s\n", p.ID, p.ActualWidth)
//	}
//
// # Main Packages
//
// ## Domain Model
//
// [wall] - Parameters, panels, schedules, objects, and the persistent edit
// state (width overrides and split records). ValidatePanels enforces the
// layout invariants every schedule must satisfy.
//
// [units] - The shop dimension model: feet, inches, and sixteenth fractions
// with exact float conversion and shop notation parsing (`12'-6 1/2"`).
//
// ## Layout Engine
//
// [layout] - Strategy selection and panel generation: fixed-width tiling,
// equal-count division, centered equal panels, start seams, and the
// custom-override layout built from pinned widths. Split replaces one panel
// with two halves that persist across recomputation.
//
// [anchor] - Places objects (TVs, sconces, mirrors) on the computed
// schedule using percent coordinates, so placements survive rescaling.
//
// ## Input and Hand-off
//
// [manifest] - TOML wall manifests: dimensions, panel stock, baseboard,
// layout toggles, overrides, split directives, and objects to place.
//
// [io] - JSON layout hand-off files written for downstream tooling and read
// back with full invariant validation.
//
// ## Orchestration
//
// [pipeline] - The resolve, compute, anchor pass shared by CLI, TUI, and
// HTTP API. Ensures consistent behavior across all entry points and caches
// both stage results under parameter-derived keys.
//
// [cache] - Cache backends for pipeline results: FileCache for the CLI,
// RedisCache for shared deployments, NullCache to disable caching.
//
// [recompute] - Single-flight recompute coordination for interactive
// sessions: triggers during a pass coalesce into one trailing rerun, and
// bulk loads suppress recomputation until the load finishes.
//
// ## Storage
//
// [wallstate] - Stored wall records with their edit history and placed
// objects. FileStore for the CLI, MemoryStore for tests and ephemeral
// serving, RedisStore and MongoStore for shared deployments.
//
// ## Support
//
// [errors] - Coded errors shared across the module, with input validation
// helpers and HTTP status mapping.
//
// [observability] - Optional hooks for pipeline, cache, and API events
// without hard dependencies on an instrumentation backend.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Common Workflows
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{ManifestFilename: "den.toml"})
//	fmt.Println(res.Stats.PanelCount, res.CacheInfo.ComputeHit)
//
// Split a panel and keep the edit:
//
//	sched, rec, _ := layout.Split(cur.Panels, []int{2}, params, &edits)
//	fmt.Printf("panel %d became %d and %d\n", rec.OriginalID, rec.LeftID, rec.RightID)
//
// Store a wall and update it atomically:
//
//	store, _ := wallstate.NewFileStore("")
//	rec := wallstate.New("den north", params)
//	_ = store.Set(ctx, rec)
//
//	_, _ = wallstate.Update(ctx, store, rec.ID, func(r *wallstate.Record) error {
//	    r.Edits.SetOverride(2, 60)
//	    _, err := layout.Compute(r.Params, r.Edits)
//	    return err
//	})
//
// Anchor an object to specific panels:
//
//	spec := anchor.Spec{Name: "tv", Width: units.FromInches(65), Alignment: anchor.AlignCenter}
//	obj, _ := anchor.Place(spec, params, sched.Panels, []int{2, 3})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [wall]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/wall
// [units]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/units
// [layout]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/layout
// [anchor]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/anchor
// [manifest]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/manifest
// [io]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/cache
// [recompute]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/recompute
// [wallstate]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/wallstate
// [errors]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/wrightline/panelplan/pkg/buildinfo
package pkg
