package wall

import (
	"maps"
	"slices"
)

// OverrideTolerance bounds how far width overrides may exceed the wall:
// overrides stay in effect while their total is at most wall width × 1.05.
// Beyond that the override layout is abandoned and the active strategy
// takes over again.
const OverrideTolerance = 1.05

// Overrides maps panel id to an absolute width in inches that supersedes
// whatever the active strategy would generate for that panel.
type Overrides map[int]float64

// Total returns the summed override widths in inches.
func (o Overrides) Total() float64 {
	var total float64
	for _, w := range o {
		total += w
	}
	return total
}

// WithinTolerance reports whether the overrides are usable on a wall of
// the given width: at least one override present and the total not more
// than 5% over the wall width.
func (o Overrides) WithinTolerance(wallWidthInches float64) bool {
	if len(o) == 0 || wallWidthInches <= 0 {
		return false
	}
	return o.Total() <= wallWidthInches*OverrideTolerance
}

// IDs returns the overridden panel ids in ascending order. Override
// layouts place panels in this order, so it must be deterministic.
func (o Overrides) IDs() []int {
	ids := slices.Collect(maps.Keys(o))
	slices.Sort(ids)
	return ids
}

// SplitRecord records that one generated panel was replaced by two
// half-width panels sharing its footprint. LeftID reuses the original id;
// RightID is freshly allocated. HalfWidthInches preserves the absolute
// half width at the moment the split was made, for the shop drawing.
type SplitRecord struct {
	OriginalID      int     `json:"original_id" bson:"original_id"`
	LeftID          int     `json:"left_id" bson:"left_id"`
	RightID         int     `json:"right_id" bson:"right_id"`
	HalfWidthInches float64 `json:"half_width_inches" bson:"half_width_inches"`
}

// Touches reports whether the record involves the given panel id, either
// as the split panel or as one of its halves.
func (r SplitRecord) Touches(id int) bool {
	return r.OriginalID == id || r.LeftID == id || r.RightID == id
}

// Edits is the persistent per-wall edit state: width overrides and split
// records. Both survive recomputation until explicitly cleared or
// superseded. A split and an override for the same panel are mutually
// exclusive; the setters below maintain that.
type Edits struct {
	Overrides Overrides     `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Splits    []SplitRecord `json:"splits,omitempty" bson:"splits,omitempty"`
}

// HasEdits reports whether any override or split is recorded.
func (e Edits) HasEdits() bool {
	return len(e.Overrides) > 0 || len(e.Splits) > 0
}

// SetOverride records an absolute width for a panel, dropping any split
// that involves it.
func (e *Edits) SetOverride(id int, inches float64) {
	if e.Overrides == nil {
		e.Overrides = make(Overrides)
	}
	e.Overrides[id] = inches
	e.Splits = slices.DeleteFunc(e.Splits, func(r SplitRecord) bool {
		return r.Touches(id)
	})
}

// ClearOverride removes the override for a panel, if any.
func (e *Edits) ClearOverride(id int) {
	delete(e.Overrides, id)
}

// RecordSplit stores a split, dropping any override for the panels it
// involves and any earlier split of the same panel. Re-splitting replaces;
// splits never stack. A record whose panel is the right half of an earlier
// split is kept alongside that earlier record, so halves can be split
// further.
func (e *Edits) RecordSplit(rec SplitRecord) {
	delete(e.Overrides, rec.OriginalID)
	delete(e.Overrides, rec.LeftID)
	delete(e.Overrides, rec.RightID)
	e.Splits = slices.DeleteFunc(e.Splits, func(r SplitRecord) bool {
		return r.LeftID == rec.LeftID
	})
	e.Splits = append(e.Splits, rec)
}

// SplitFor returns the split whose left half carries the given id.
func (e Edits) SplitFor(leftID int) (SplitRecord, bool) {
	for _, r := range e.Splits {
		if r.LeftID == leftID {
			return r, true
		}
	}
	return SplitRecord{}, false
}

// Clear removes all overrides and splits.
func (e *Edits) Clear() {
	e.Overrides = nil
	e.Splits = nil
}

// Clone returns a deep copy, so stored edit state can be handed out as an
// immutable snapshot.
func (e Edits) Clone() Edits {
	return Edits{
		Overrides: maps.Clone(e.Overrides),
		Splits:    slices.Clone(e.Splits),
	}
}
