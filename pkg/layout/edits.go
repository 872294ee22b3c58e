package layout

import (
	"gonum.org/v1/gonum/floats"

	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// applySplits is the post-pass that rewrites a generator's output with the
// recorded splits. Each split's left-half id is looked up in the sequence;
// when found, the panel is replaced in place by two half-width panels, the
// second taking the recorded right id. The right half is then checked
// against the remaining records, so a split of a previously produced half
// nests instead of vanishing. Records whose panel never appears are
// skipped. The whole sequence is finally re-walked so every X is the
// running total of preceding widths; generator placement is never trusted
// once a panel count changes.
func applySplits(params wall.Parameters, panels []wall.Panel, edits wall.Edits) []wall.Panel {
	if len(edits.Splits) == 0 {
		return panels
	}

	// Ids already spoken for: everything the generator produced, plus
	// every right half as it is emitted. Fresh ids start past every id any
	// record or panel knows about.
	taken := make(map[int]struct{}, len(panels)+len(edits.Splits))
	nextID := 1
	for _, p := range panels {
		taken[p.ID] = struct{}{}
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}
	for _, r := range edits.Splits {
		if r.RightID >= nextID {
			nextID = r.RightID + 1
		}
	}

	// Each record applies at most once per pass; consuming them prevents a
	// left half (which keeps its panel's id) from matching its own record
	// again.
	consumed := make([]bool, len(edits.Splits))
	splitFor := func(id int) (int, bool) {
		for i, r := range edits.Splits {
			if !consumed[i] && r.LeftID == id {
				return i, true
			}
		}
		return 0, false
	}

	out := make([]wall.Panel, 0, len(panels)+len(edits.Splits))
	var expand func(p wall.Panel)
	expand = func(p wall.Panel) {
		idx, ok := splitFor(p.ID)
		if !ok {
			out = append(out, p)
			return
		}
		consumed[idx] = true

		// A regenerated schedule may already use the recorded right id
		// (the wall grew and tiling produced more panels); allocate a
		// fresh id rather than colliding.
		rightID := edits.Splits[idx].RightID
		if _, exists := taken[rightID]; exists {
			rightID = nextID
			nextID++
		}
		taken[rightID] = struct{}{}

		// Halve the panel as the generator sized it. Deriving the halves
		// from the live percent width (rather than the inches recorded at
		// split time) keeps the schedule covering the wall even when the
		// wall was resized after the split.
		halfPercent := p.Width / 2
		halfWidth := units.FromInches(halfPercent / 100 * params.WidthInches())

		left := p
		left.Width = halfPercent
		left.ActualWidth = halfWidth

		right := p
		right.ID = rightID
		right.Width = halfPercent
		right.ActualWidth = halfWidth

		expand(left)
		expand(right)
	}
	for _, p := range panels {
		expand(p)
	}

	rewalk(out)
	return out
}

// rewalk recomputes every panel's X as the prefix sum of the preceding
// widths, anchoring the first panel at zero.
func rewalk(panels []wall.Panel) {
	if len(panels) == 0 {
		return
	}
	ends := make([]float64, len(panels))
	floats.CumSum(ends, wall.Widths(panels))
	panels[0].X = 0
	for i := 1; i < len(panels); i++ {
		panels[i].X = ends[i-1]
	}
}
