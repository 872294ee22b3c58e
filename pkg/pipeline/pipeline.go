// Package pipeline provides the core layout pipeline for Panelplan.
//
// This package implements the complete resolve → compute → anchor pipeline
// that can be used by CLI, API, and TUI components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: turn a manifest, a stored wall, or inline parameters into a
//     validated parameter set plus edit state and placement specs
//  2. Compute: generate the panel schedule
//  3. Anchor: place objects against the computed schedule
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestFilename: "living-room.toml",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Schedule.Mode, result.Stats.PanelCount)
//
// Run individual stages:
//
//	// Resolve only
//	res, err := runner.Resolve(ctx, opts)
//
//	// Compute with resolved inputs
//	sched, err := runner.Compute(ctx, res.Params, res.Edits, opts)
//
//	// Anchor with an existing schedule
//	objects, err := runner.Anchor(ctx, res.Params, sched, res.Specs, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/wall"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// =============================================================================
// Resolve Sources - Single Source of Truth for CLI, API, and TUI
// =============================================================================

// Resolve source names, reported in stats, logs, and hook events.
const (
	SourceManifest = "manifest"
	SourceWall     = "wall"
	SourceParams   = "params"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options. Exactly one source must be set: a manifest, a
	// stored wall id, or inline parameters.
	Manifest         string           `json:"manifest,omitempty"`          // raw manifest TOML
	ManifestFilename string           `json:"manifest_filename,omitempty"` // filename; doubles as the path when Manifest is empty
	WallID           string           `json:"wall_id,omitempty"`           // stored wall record id
	Params           *wall.Parameters `json:"params,omitempty"`            // inline parameters
	Edits            *wall.Edits      `json:"edits,omitempty"`             // inline edit state, params source only
	Refresh          bool             `json:"refresh,omitempty"`           // bypass cached results

	// Anchor options: objects to place against the computed schedule, in
	// addition to any the resolve source carries.
	Objects []ObjectRequest `json:"objects,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger     `json:"-"`
	Store  wallstate.Store `json:"-"` // required for the wall source

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ObjectRequest pairs a placement spec with the panel ids it targets.
type ObjectRequest struct {
	anchor.Spec
	Panels []int `json:"panels,omitempty"`
}

// SetDefaults fills the reference fields a request may omit: objects are
// measured to their vertical center from the wall top, and exact placements
// measure to their horizontal center. Alignment placements resolve
// horizontally against panels, so their horizontal reference stays unset.
func (o *ObjectRequest) SetDefaults() {
	if o.VerticalRef == "" {
		o.VerticalRef = wall.VerticalCenter
	}
	if o.MeasureFrom == "" {
		o.MeasureFrom = wall.MeasureWallTop
	}
	if o.Alignment == anchor.AlignNone && o.HorizontalRef == "" {
		o.HorizontalRef = wall.HorizontalCenter
	}
}

// Resolved is the output of the resolve stage: everything the compute and
// anchor stages need, regardless of which source produced it.
type Resolved struct {
	// Name is the wall's display name, when the source provides one.
	Name string

	// Params and Edits drive schedule computation.
	Params wall.Parameters
	Edits  wall.Edits

	// Specs are placements still to be resolved against the schedule.
	Specs []ObjectRequest

	// Placed are objects the source already anchored; their percent
	// positions stay valid across recomputation, so they pass through.
	Placed []wall.Object
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the wall's display name, when the source provides one.
	Name string

	// Params and Edits are the resolved inputs the schedule was computed from.
	Params wall.Parameters
	Edits  wall.Edits

	// ParamsHash is the content hash of the resolved parameters.
	ParamsHash string

	// Schedule is the computed panel layout.
	Schedule wall.Schedule

	// Objects are the anchored objects: those carried by the source plus
	// any placed during this run.
	Objects []wall.Object

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PanelCount  int
	ObjectCount int
	ResolveTime time.Duration
	ComputeTime time.Duration
	AnchorTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the schedule came from cache
	AnchorHit  bool // Whether placements came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	o.SetAnchorDefaults()
	o.validated = true
	return nil
}

// ValidateForResolve checks that exactly one wall source is configured.
func (o *Options) ValidateForResolve() error {
	sources := 0
	if o.Manifest != "" || o.ManifestFilename != "" {
		sources++
	}
	if o.WallID != "" {
		sources++
	}
	if o.Params != nil {
		sources++
	}
	if sources == 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"a manifest, wall id, or parameter set is required")
	}
	if sources > 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"manifest, wall id, and parameters are mutually exclusive")
	}
	if o.Manifest != "" && o.ManifestFilename == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"manifest_filename is required with inline manifest content")
	}
	if o.WallID != "" {
		if err := errors.ValidateRecordID(o.WallID); err != nil {
			return err
		}
	}
	if o.Edits != nil && o.Params == nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"inline edits require inline parameters")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetAnchorDefaults fills reference-point defaults on inline object
// requests, matching the defaults manifest objects receive: distances
// refer to the object center measured from the wall top, and exact
// horizontal placement refers to the object center.
func (o *Options) SetAnchorDefaults() {
	for i := range o.Objects {
		o.Objects[i].SetDefaults()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Source reports which resolve source the options select. Only meaningful
// once ValidateForResolve has passed.
func (o *Options) Source() string {
	switch {
	case o.Manifest != "" || o.ManifestFilename != "":
		return SourceManifest
	case o.WallID != "":
		return SourceWall
	default:
		return SourceParams
	}
}

// HasObjects reports whether any placement work will run: inline object
// requests here, or specs carried by the resolve source.
func (o *Options) HasObjects() bool {
	return len(o.Objects) > 0
}
