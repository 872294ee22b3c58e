package layout

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// CenterPanelWidthInches is the fixed width of each center panel in the
// centered-equal strategy.
const CenterPanelWidthInches = 48.0

// span is a generator's raw output: a panel id and an absolute width.
// Percent positions, heights, and mount flags are attached by assemble.
type span struct {
	id    int
	width float64 // inches
}

// fixedWidthSpans tiles panels of the configured width left to right; the
// final panel takes whatever remains.
func fixedWidthSpans(params wall.Parameters) ([]span, error) {
	fixed := params.PanelWidth.ToInches()
	if fixed <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimension,
			"fixed-width tiling needs a panel width greater than zero")
	}

	wallW := params.WidthInches()
	var spans []span
	id := 1
	for cursor := 0.0; wallW-cursor > inchEps; id++ {
		w := math.Min(fixed, wallW-cursor)
		spans = append(spans, span{id: id, width: w})
		cursor += w
	}
	return spans, nil
}

// equalCountSpans divides the wall into N identical panels. Widths stay
// exact reals; nothing is rounded until display. A count below one is
// treated as one.
func equalCountSpans(params wall.Parameters) []span {
	n := params.PanelCount
	if n < 1 {
		n = 1
	}
	w := params.WidthInches() / float64(n)
	spans := make([]span, n)
	for i := range spans {
		spans[i] = span{id: i + 1, width: w}
	}
	return spans
}

// centeredEqualSpans places N fixed-width panels in the middle of the wall
// with two equal side panels. A side panel is omitted when its width would
// be zero or negative; a center block wider than the wall is refused.
func centeredEqualSpans(params wall.Parameters) ([]span, error) {
	n := params.CenterCount
	if n < 1 {
		n = 1
	}
	wallW := params.WidthInches()
	block := float64(n) * CenterPanelWidthInches
	if block > wallW+inchEps {
		return nil, errors.New(errors.ErrCodeConstraint,
			"%d centered panels need %.4g\" but the wall is only %s wide", n, block, params.Width)
	}

	side := (wallW - block) / 2
	var spans []span
	id := 1
	if side > inchEps {
		spans = append(spans, span{id: id, width: side})
		id++
	}
	for i := 0; i < n; i++ {
		spans = append(spans, span{id: id, width: CenterPanelWidthInches})
		id++
	}
	if side > inchEps {
		spans = append(spans, span{id: id, width: side})
	}
	return spans, nil
}

// startSeamSpans splits the wall at the seam position and tiles each
// section independently. A section's remainder is spread evenly across all
// of its panels rather than concentrated in one partial panel, so each
// section is filled exactly. A seam outside (0, wallWidth) degrades to a
// two-panel 50/50 split; the returned flag reports that fallback so
// callers can surface a notice.
func startSeamSpans(params wall.Parameters) ([]span, bool) {
	wallW := params.WidthInches()
	seam := params.SeamPosition.ToInches()
	if seam <= 0 || seam >= wallW {
		half := wallW / 2
		return []span{{id: 1, width: half}, {id: 2, width: half}}, true
	}

	fixed := params.PanelWidth.ToInches()
	var spans []span
	id := 1
	for _, section := range []float64{seam, wallW - seam} {
		n := sectionPanelCount(section, fixed)
		per := section / float64(n)
		for i := 0; i < n; i++ {
			spans = append(spans, span{id: id, width: per})
			id++
		}
	}
	return spans, false
}

// sectionPanelCount is the number of panels a seam section holds: as many
// whole fixed-width panels as fit, and never fewer than one. A section
// narrower than one panel becomes a single panel spanning the section.
func sectionPanelCount(section, fixed float64) int {
	if fixed <= 0 || section <= fixed {
		return 1
	}
	return int(section / fixed)
}

// customOverrideSpans builds panels directly from the override map in
// ascending id order. Every width is scaled by wallWidth/total so the
// overrides always fill the wall exactly: totals over the wall width are
// compressed and totals under it are stretched by the same uniform factor.
func customOverrideSpans(params wall.Parameters, edits wall.Edits) []span {
	scale := params.WidthInches() / edits.Overrides.Total()
	ids := edits.Overrides.IDs()
	spans := make([]span, len(ids))
	for i, id := range ids {
		spans[i] = span{id: id, width: edits.Overrides[id] * scale}
	}
	return spans
}

// assemble turns raw spans into positioned panels: widths become percent
// of wall width with X as the running prefix sum, absolute widths snap to
// the dimension model, and the shared height and mount settings are
// attached to every panel.
func assemble(params wall.Parameters, spans []span) []wall.Panel {
	wallW := params.WidthInches()
	height := units.FromInches(params.PanelHeightInches())

	widths := make([]float64, len(spans))
	for i, s := range spans {
		widths[i] = s.width / wallW * 100
	}
	ends := make([]float64, len(widths))
	floats.CumSum(ends, widths)

	panels := make([]wall.Panel, len(spans))
	for i, s := range spans {
		x := 0.0
		if i > 0 {
			x = ends[i-1]
		}
		panels[i] = wall.Panel{
			ID:           s.id,
			X:            x,
			Width:        widths[i],
			ActualWidth:  units.FromInches(s.width),
			Height:       height,
			FloorMounted: params.FloorMounted,
			HeightOffset: params.HeightOffset,
		}
	}
	return panels
}
