// Package anchor places auxiliary rectangles (thermostats, outlets,
// sconces) on the wall relative to the computed panel schedule.
//
// The installer states an intent: a vertical distance measured against a
// reference edge of the object, and a horizontal position given either as
// an exact distance or as an alignment keyword over the selected panels.
// The solver resolves that intent into the object's center as percentages
// of the wall, which is what renderers and exporters consume.
package anchor

import (
	"math"

	"github.com/google/uuid"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// Alignment is the keyword form of horizontal placement, resolved against
// the bounding box of the selected panels. The empty value means exact
// mode: the horizontal distance and reference decide the position instead.
type Alignment string

const (
	AlignNone      Alignment = ""
	AlignCenter    Alignment = "center"
	AlignLeftEdge  Alignment = "left_edge"
	AlignRightEdge Alignment = "right_edge"
)

// ParseAlignment converts user input to an Alignment. The empty string is
// valid and selects exact mode.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignNone, AlignCenter, AlignLeftEdge, AlignRightEdge:
		return Alignment(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid alignment %q (want center, left_edge, or right_edge)", s)
}

// Spec is the installer's placement intent for one object.
type Spec struct {
	Name   string          `json:"name,omitempty"`
	Width  units.Dimension `json:"width"`
	Height units.Dimension `json:"height"`

	// Vertical intent: a distance from MeasureFrom down to the
	// VerticalRef edge of the object.
	VerticalDistance units.Dimension    `json:"vertical_distance"`
	VerticalRef      wall.VerticalRef   `json:"vertical_ref"`
	MeasureFrom      wall.MeasureOrigin `json:"measure_from"`

	// Horizontal intent: Alignment when set, otherwise an exact distance
	// from the left wall edge to the HorizontalRef edge of the object.
	Alignment          Alignment          `json:"alignment,omitempty"`
	HorizontalDistance units.Dimension    `json:"horizontal_distance"`
	HorizontalRef      wall.HorizontalRef `json:"horizontal_ref"`
}

// Validate checks the spec is self-consistent before any placement math.
func (s Spec) Validate() error {
	if s.Width.IsZero() || s.Height.IsZero() {
		return errors.New(errors.ErrCodeInvalidDimension, "object width and height must be greater than zero")
	}
	if _, err := wall.ParseVerticalRef(string(s.VerticalRef)); err != nil {
		return err
	}
	if _, err := wall.ParseMeasureOrigin(string(s.MeasureFrom)); err != nil {
		return err
	}
	if s.Alignment == AlignNone {
		if _, err := wall.ParseHorizontalRef(string(s.HorizontalRef)); err != nil {
			return err
		}
	} else if _, err := ParseAlignment(string(s.Alignment)); err != nil {
		return err
	}
	return nil
}

// Place resolves a spec into an anchored object. In alignment mode the
// selection must name at least one panel in the schedule; exact mode
// ignores the selection for positioning and only records it. On error no
// object is produced.
func Place(spec Spec, params wall.Parameters, panels []wall.Panel, selectedIDs []int) (wall.Object, error) {
	if err := spec.Validate(); err != nil {
		return wall.Object{}, err
	}
	if err := params.Validate(); err != nil {
		return wall.Object{}, err
	}

	selected := selectPanels(panels, selectedIDs)

	yPercent := resolveVertical(spec, params)
	xPercent, err := resolveHorizontal(spec, params, selected)
	if err != nil {
		return wall.Object{}, err
	}

	affected := make([]int, len(selected))
	for i, p := range selected {
		affected[i] = p.ID
	}

	return wall.Object{
		ID:             uuid.NewString(),
		Name:           spec.Name,
		Width:          spec.Width,
		Height:         spec.Height,
		XPercent:       xPercent,
		YPercent:       yPercent,
		VerticalRef:    spec.VerticalRef,
		HorizontalRef:  spec.HorizontalRef,
		MeasureFrom:    spec.MeasureFrom,
		AffectedPanels: affected,
	}, nil
}

// resolveVertical converts the vertical intent into the object center as a
// percent of the usable wall height, measured from the wall top.
func resolveVertical(spec Spec, params wall.Parameters) float64 {
	dist := spec.VerticalDistance.ToInches()
	halfH := spec.Height.ToInches() / 2

	// Shift from the referenced edge to the object's center.
	switch spec.VerticalRef {
	case wall.VerticalTop:
		dist += halfH
	case wall.VerticalBottom:
		dist -= halfH
	}

	// A panel-relative distance becomes wall-relative by adding the gap
	// between the wall top and the panel top.
	if spec.MeasureFrom == wall.MeasurePanelTop {
		gap := params.HeightInches() - params.PanelHeightInches()
		if params.BaseboardEnabled {
			gap -= params.BaseboardHeight.ToInches()
		}
		dist += gap
	}

	usable := params.UsableHeightInches()
	if usable <= 0 {
		return 0
	}
	return clampPercent(dist / usable * 100)
}

// resolveHorizontal converts the horizontal intent into the object center
// as a percent of the wall width.
func resolveHorizontal(spec Spec, params wall.Parameters, selected []wall.Panel) (float64, error) {
	wallW := params.WidthInches()
	halfW := spec.Width.ToInches() / 2

	if spec.Alignment == AlignNone {
		dist := spec.HorizontalDistance.ToInches()
		switch spec.HorizontalRef {
		case wall.HorizontalLeft:
			dist += halfW
		case wall.HorizontalRight:
			dist -= halfW
		}
		return clampPercent(dist / wallW * 100), nil
	}

	if len(selected) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidSelection,
			"alignment placement needs at least one selected panel")
	}

	minX, maxX := selected[0].X, selected[0].End()
	for _, p := range selected[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.End())
	}

	halfWPercent := halfW / wallW * 100
	switch spec.Alignment {
	case AlignLeftEdge:
		return clampPercent(minX + halfWPercent), nil
	case AlignRightEdge:
		return clampPercent(maxX - halfWPercent), nil
	default: // AlignCenter
		return clampPercent((minX + maxX) / 2), nil
	}
}

// selectPanels returns the schedule panels matching the selected ids, in
// schedule order.
func selectPanels(panels []wall.Panel, ids []int) []wall.Panel {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []wall.Panel
	for _, p := range panels {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
