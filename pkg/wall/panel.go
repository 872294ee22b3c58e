package wall

import (
	"gonum.org/v1/gonum/floats"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
)

// PercentTolerance is the slack allowed on percent arithmetic. Positions
// and widths accumulate floating-point error across a schedule, so every
// "sums to 100" and adjacency comparison uses this tolerance instead of
// exact equality.
const PercentTolerance = 1e-6

// Panel is one rectangular covering segment. X and Width are percentages
// of the wall width so a schedule survives wall resizing; ActualWidth is
// the same width snapped to the dimension model for the shop drawing.
//
// IDs are unique within a wall but not necessarily contiguous: splitting
// a panel allocates a fresh id above all existing ones.
type Panel struct {
	ID           int             `json:"id" bson:"id"`
	X            float64         `json:"x" bson:"x"`
	Width        float64         `json:"width" bson:"width"`
	ActualWidth  units.Dimension `json:"actual_width" bson:"actual_width"`
	Height       units.Dimension `json:"height" bson:"height"`
	FloorMounted bool            `json:"floor_mounted,omitempty" bson:"floor_mounted,omitempty"`
	HeightOffset units.Dimension `json:"height_offset" bson:"height_offset"`
}

// End returns the panel's right edge as a percent of wall width.
func (p Panel) End() float64 { return p.X + p.Width }

// Schedule is a computed layout: the ordered panel sequence plus its
// provenance. It is the hand-off format consumed by renderers, exporters,
// and the anchoring solver.
type Schedule struct {
	Mode         string  `json:"mode" bson:"mode"`
	Panels       []Panel `json:"panels" bson:"panels"`
	SeamFallback bool    `json:"seam_fallback,omitempty" bson:"seam_fallback,omitempty"`
}

// Widths returns the percent widths of panels in order.
func Widths(panels []Panel) []float64 {
	ws := make([]float64, len(panels))
	for i, p := range panels {
		ws[i] = p.Width
	}
	return ws
}

// ValidatePanels checks the structural invariants every schedule must
// satisfy: unique panel ids, the first panel starting at zero, each
// panel's X the prefix sum of the preceding widths (no gap, no overlap),
// and widths covering the full wall.
func ValidatePanels(panels []Panel) error {
	if len(panels) == 0 {
		return errors.New(errors.ErrCodeConstraint, "schedule has no panels")
	}
	seen := make(map[int]struct{}, len(panels))
	for _, p := range panels {
		if _, dup := seen[p.ID]; dup {
			return errors.New(errors.ErrCodeConstraint, "duplicate panel id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if !floats.EqualWithinAbs(panels[0].X, 0, PercentTolerance) {
		return errors.New(errors.ErrCodeConstraint,
			"first panel starts at %.6f%%, want 0%%", panels[0].X)
	}
	for i := 1; i < len(panels); i++ {
		want := panels[i-1].End()
		if !floats.EqualWithinAbs(panels[i].X, want, PercentTolerance) {
			return errors.New(errors.ErrCodeConstraint,
				"panel %d starts at %.6f%%, want %.6f%%", panels[i].ID, panels[i].X, want)
		}
	}
	if total := floats.Sum(Widths(panels)); !floats.EqualWithinAbs(total, 100, PercentTolerance) {
		return &errors.CoverageError{Total: total}
	}
	return nil
}
