// Package wall defines the data model shared across the layout engine:
// wall parameters as entered by the installer, computed panels, persistent
// edit state (width overrides and splits), and anchored objects.
//
// Everything here is plain data. The algorithms that produce panels live in
// pkg/layout; object placement lives in pkg/anchor. Types carry both JSON
// tags (API payloads, file storage, the downstream hand-off format) and BSON
// tags (the MongoDB wall-state backend).
package wall

import (
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
)

// Parameters holds everything the installer enters about one wall. It is a
// pure value: copying it copies all state, so a computation can treat its
// copy as an immutable snapshot.
type Parameters struct {
	// Overall wall size.
	Width  units.Dimension `json:"width" bson:"width"`
	Height units.Dimension `json:"height" bson:"height"`

	// PanelWidth is the fixed panel width used by the tiling and start-seam
	// strategies. PanelHeight is the covering height; zero means "as tall as
	// the usable wall".
	PanelWidth  units.Dimension `json:"panel_width" bson:"panel_width"`
	PanelHeight units.Dimension `json:"panel_height" bson:"panel_height"`

	// Baseboard, when enabled, is excluded from the usable wall height.
	BaseboardEnabled bool            `json:"baseboard_enabled,omitempty" bson:"baseboard_enabled,omitempty"`
	BaseboardHeight  units.Dimension `json:"baseboard_height" bson:"baseboard_height"`

	// FloorMounted panels sit on the floor (or baseboard); otherwise each
	// panel is raised by HeightOffset. Propagated verbatim to every panel.
	FloorMounted bool            `json:"floor_mounted,omitempty" bson:"floor_mounted,omitempty"`
	HeightOffset units.Dimension `json:"height_offset" bson:"height_offset"`

	// Strategy toggles. At most one should be set; when several are, the
	// selector in pkg/layout resolves them in fixed priority order.
	EqualPanels bool `json:"equal_panels,omitempty" bson:"equal_panels,omitempty"`
	PanelCount  int  `json:"panel_count,omitempty" bson:"panel_count,omitempty"`

	CenterPanels bool `json:"center_panels,omitempty" bson:"center_panels,omitempty"`
	CenterCount  int  `json:"center_count,omitempty" bson:"center_count,omitempty"`

	SeamEnabled  bool            `json:"seam_enabled,omitempty" bson:"seam_enabled,omitempty"`
	SeamPosition units.Dimension `json:"seam_position" bson:"seam_position"`
}

// WidthInches returns the wall width as decimal inches.
func (p Parameters) WidthInches() float64 { return p.Width.ToInches() }

// HeightInches returns the wall height as decimal inches.
func (p Parameters) HeightInches() float64 { return p.Height.ToInches() }

// UsableHeightInches returns the wall height available to panels: the full
// height, minus the baseboard when one is enabled.
func (p Parameters) UsableHeightInches() float64 {
	h := p.Height.ToInches()
	if p.BaseboardEnabled {
		h -= p.BaseboardHeight.ToInches()
	}
	if h < 0 {
		return 0
	}
	return h
}

// PanelHeightInches returns the effective panel height: the configured
// height clamped to the usable wall height, or the full usable height when
// no panel height is configured.
func (p Parameters) PanelHeightInches() float64 {
	usable := p.UsableHeightInches()
	if p.PanelHeight.IsZero() {
		return usable
	}
	h := p.PanelHeight.ToInches()
	if h > usable {
		return usable
	}
	return h
}

// Validate checks that the parameters describe a wall panels can be laid
// out on. Strategy-specific checks (counts, seam position) belong to the
// generators; this covers only what every strategy needs.
func (p Parameters) Validate() error {
	if p.Width.IsZero() {
		return errors.New(errors.ErrCodeInvalidDimension, "wall width must be greater than zero")
	}
	if p.Height.IsZero() {
		return errors.New(errors.ErrCodeInvalidDimension, "wall height must be greater than zero")
	}
	if p.BaseboardEnabled && p.BaseboardHeight.ToInches() >= p.Height.ToInches() {
		return errors.New(errors.ErrCodeInvalidDimension,
			"baseboard height %s must be less than wall height %s", p.BaseboardHeight, p.Height)
	}
	return nil
}
