// Package layout turns wall parameters into a panel schedule.
//
// Five mutually exclusive strategies generate the initial panel sequence;
// a post-pass applies recorded splits and re-normalizes positions so the
// schedule always covers the wall exactly, gap-free and overlap-free,
// regardless of strategy or edit history.
package layout

import (
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/wall"
)

// inchEps absorbs floating-point noise in inch arithmetic, matching the
// epsilon the dimension model uses when snapping to sixteenths.
const inchEps = 1e-9

// Mode identifies one panel-generation strategy. Exactly one mode is
// selected per computation; the toggles on wall.Parameters never drive
// generation directly.
type Mode string

const (
	ModeFixedWidth     Mode = "fixed_width"
	ModeEqualCount     Mode = "equal_count"
	ModeCenteredEqual  Mode = "centered_equal"
	ModeStartSeam      Mode = "start_seam"
	ModeCustomOverride Mode = "custom_override"
)

// SelectMode picks the active strategy from the parameter toggles and edit
// state. Priority is fixed, first match wins:
//
//  1. Custom override, while overrides exist and their total is within
//     tolerance of the wall width
//  2. Start seam
//  3. Centered equal panels
//  4. Equal-count division
//  5. Fixed-width tiling (default)
func SelectMode(params wall.Parameters, edits wall.Edits) Mode {
	switch {
	case edits.Overrides.WithinTolerance(params.WidthInches()):
		return ModeCustomOverride
	case params.SeamEnabled:
		return ModeStartSeam
	case params.CenterPanels:
		return ModeCenteredEqual
	case params.EqualPanels:
		return ModeEqualCount
	default:
		return ModeFixedWidth
	}
}

// Compute runs one full layout pass: select the strategy, generate panels,
// apply recorded splits, and verify the schedule invariants. It reads
// params and edits as an immutable snapshot and never mutates them.
func Compute(params wall.Parameters, edits wall.Edits) (wall.Schedule, error) {
	if err := params.Validate(); err != nil {
		return wall.Schedule{}, err
	}

	mode := SelectMode(params, edits)
	sched, err := Generate(mode, params, edits)
	if err != nil {
		return wall.Schedule{}, err
	}

	// Custom-override layouts already encode the user's widths; the split
	// post-pass applies to every other strategy's output.
	if mode != ModeCustomOverride {
		sched.Panels = applySplits(params, sched.Panels, edits)
	}

	if err := wall.ValidatePanels(sched.Panels); err != nil {
		return wall.Schedule{}, errors.Wrap(errors.ErrCodeInternal, err,
			"computed schedule violates layout invariants")
	}
	return sched, nil
}

// Generate runs a single strategy without the split post-pass or invariant
// check. Most callers want Compute; this exists for the dispatcher itself
// and for tests that exercise one generator in isolation.
func Generate(mode Mode, params wall.Parameters, edits wall.Edits) (wall.Schedule, error) {
	var (
		spans    []span
		fallback bool
		err      error
	)
	switch mode {
	case ModeFixedWidth:
		spans, err = fixedWidthSpans(params)
	case ModeEqualCount:
		spans = equalCountSpans(params)
	case ModeCenteredEqual:
		spans, err = centeredEqualSpans(params)
	case ModeStartSeam:
		spans, fallback = startSeamSpans(params)
	case ModeCustomOverride:
		spans = customOverrideSpans(params, edits)
	default:
		return wall.Schedule{}, errors.New(errors.ErrCodeInvalidMode, "unknown layout mode %q", mode)
	}
	if err != nil {
		return wall.Schedule{}, err
	}

	return wall.Schedule{
		Mode:         string(mode),
		Panels:       assemble(params, spans),
		SeamFallback: fallback,
	}, nil
}

// Split replaces one panel with two halves sharing its footprint. The
// selection must contain exactly one panel id from the current schedule.
// The new right half receives an id above every existing one; the record
// supersedes any earlier split or override touching the panel. On any
// error the edit state is left untouched.
func Split(panels []wall.Panel, selectedIDs []int, params wall.Parameters, edits *wall.Edits) (wall.Schedule, wall.SplitRecord, error) {
	if len(selectedIDs) != 1 {
		return wall.Schedule{}, wall.SplitRecord{}, errors.New(errors.ErrCodeInvalidSelection,
			"split needs exactly one selected panel, got %d", len(selectedIDs))
	}
	id := selectedIDs[0]

	var target *wall.Panel
	maxID := 0
	for i := range panels {
		if panels[i].ID > maxID {
			maxID = panels[i].ID
		}
		if panels[i].ID == id {
			target = &panels[i]
		}
	}
	if target == nil {
		return wall.Schedule{}, wall.SplitRecord{}, errors.New(errors.ErrCodePanelNotFound,
			"panel %d is not part of the current schedule", id)
	}

	rec := wall.SplitRecord{
		OriginalID:      id,
		LeftID:          id,
		RightID:         maxID + 1,
		HalfWidthInches: target.Width / 100 * params.WidthInches() / 2,
	}

	next := edits.Clone()
	next.RecordSplit(rec)

	sched, err := Compute(params, next)
	if err != nil {
		return wall.Schedule{}, wall.SplitRecord{}, err
	}

	*edits = next
	return sched, rec, nil
}
