// Package manifest loads wall descriptions from TOML files.
//
// A manifest captures everything needed to reproduce a wall: its
// dimensions, panel stock, layout strategy, and any edits or anchored
// objects applied on top. Dimensions are written in shop notation and
// parsed through units.Dimension:
//
//	[wall]
//	name = "living room north"
//	width = "12' 6\""
//	height = "9'"
//
//	[panels]
//	width = "4'"
//
//	[baseboard]
//	enabled = true
//	height = "5 1/2\""
//
//	[[objects]]
//	name = "sconce"
//	width = "6\""
//	height = "10\""
//	vertical_distance = "5'"
//	alignment = "center"
//	panels = [1, 2]
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

// Manifest is a decoded wall manifest.
type Manifest struct {
	Wall      WallSection                `toml:"wall"`
	Panels    PanelSection               `toml:"panels"`
	Baseboard BaseboardSection           `toml:"baseboard"`
	Layout    LayoutSection              `toml:"layout"`
	Overrides map[string]units.Dimension `toml:"overrides"`
	Splits    []SplitSection             `toml:"splits"`
	Objects   []ObjectSection            `toml:"objects"`
}

// WallSection names the wall and gives its dimensions.
type WallSection struct {
	Name   string          `toml:"name"`
	Width  units.Dimension `toml:"width"`
	Height units.Dimension `toml:"height"`
}

// PanelSection describes the panel stock and how panels are mounted.
// Height may be omitted to run panels the full usable wall height.
type PanelSection struct {
	Width        units.Dimension `toml:"width"`
	Height       units.Dimension `toml:"height"`
	FloorMounted bool            `toml:"floor_mounted"`
	HeightOffset units.Dimension `toml:"height_offset"`
}

// BaseboardSection describes the baseboard, if any.
type BaseboardSection struct {
	Enabled bool            `toml:"enabled"`
	Height  units.Dimension `toml:"height"`
}

// LayoutSection selects the layout strategy. Leaving every field zero
// tiles the wall with fixed-width panels.
type LayoutSection struct {
	EqualPanels  bool            `toml:"equal_panels"`
	PanelCount   int             `toml:"panel_count"`
	CenterPanels bool            `toml:"center_panels"`
	CenterCount  int             `toml:"center_count"`
	SeamEnabled  bool            `toml:"seam_enabled"`
	SeamPosition units.Dimension `toml:"seam_position"`
}

// SplitSection records one split directive, applied in file order.
type SplitSection struct {
	Panel int `toml:"panel"`
}

// ObjectSection describes one object to anchor. vertical_ref defaults to
// center, measure_from to wall_top, and horizontal_ref to center when no
// alignment is given.
type ObjectSection struct {
	Name               string          `toml:"name"`
	Width              units.Dimension `toml:"width"`
	Height             units.Dimension `toml:"height"`
	VerticalDistance   units.Dimension `toml:"vertical_distance"`
	VerticalRef        string          `toml:"vertical_ref"`
	MeasureFrom        string          `toml:"measure_from"`
	Alignment          string          `toml:"alignment"`
	HorizontalDistance units.Dimension `toml:"horizontal_distance"`
	HorizontalRef      string          `toml:"horizontal_ref"`
	Panels             []int           `toml:"panels"`
}

// Anchor pairs a placement spec with the panel ids it selects.
type Anchor struct {
	Spec   anchor.Spec
	Panels []int
}

// Load reads and decodes a wall manifest from disk.
func Load(path string) (*Manifest, error) {
	if err := errors.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest %s", path)
	}
	return Decode(data)
}

// Decode parses manifest TOML and validates the wall name.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if m.Wall.Name != "" {
		if err := errors.ValidateWallName(m.Wall.Name); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Params converts the decoded sections into wall parameters.
func (m *Manifest) Params() wall.Parameters {
	return wall.Parameters{
		Width:            m.Wall.Width,
		Height:           m.Wall.Height,
		PanelWidth:       m.Panels.Width,
		PanelHeight:      m.Panels.Height,
		FloorMounted:     m.Panels.FloorMounted,
		HeightOffset:     m.Panels.HeightOffset,
		BaseboardEnabled: m.Baseboard.Enabled,
		BaseboardHeight:  m.Baseboard.Height,
		EqualPanels:      m.Layout.EqualPanels,
		PanelCount:       m.Layout.PanelCount,
		CenterPanels:     m.Layout.CenterPanels,
		CenterCount:      m.Layout.CenterCount,
		SeamEnabled:      m.Layout.SeamEnabled,
		SeamPosition:     m.Layout.SeamPosition,
	}
}

// Edits replays the manifest's overrides and split directives against the
// parameters, exactly as if a user had applied them one at a time. Split
// directives target panel ids in the schedule as it stands when the
// directive runs, so later directives can split the halves earlier ones
// produced.
func (m *Manifest) Edits(params wall.Parameters) (wall.Edits, error) {
	var edits wall.Edits

	for key, dim := range m.Overrides {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return wall.Edits{}, errors.New(errors.ErrCodeInvalidManifest,
				"override key %q is not a panel id", key)
		}
		edits.SetOverride(id, dim.ToInches())
	}

	for _, split := range m.Splits {
		sched, err := layout.Compute(params, edits)
		if err != nil {
			return wall.Edits{}, err
		}
		if _, _, err := layout.Split(sched.Panels, []int{split.Panel}, params, &edits); err != nil {
			return wall.Edits{}, errors.Wrap(errors.GetCode(err), err,
				"split directive for panel %d", split.Panel)
		}
	}
	return edits, nil
}

// Anchors converts the object sections into placement directives,
// applying the documented defaults and validating each spec.
func (m *Manifest) Anchors() ([]Anchor, error) {
	out := make([]Anchor, 0, len(m.Objects))
	for i, obj := range m.Objects {
		spec := anchor.Spec{
			Name:               obj.Name,
			Width:              obj.Width,
			Height:             obj.Height,
			VerticalDistance:   obj.VerticalDistance,
			VerticalRef:        wall.VerticalRef(obj.VerticalRef),
			MeasureFrom:        wall.MeasureOrigin(obj.MeasureFrom),
			Alignment:          anchor.Alignment(obj.Alignment),
			HorizontalDistance: obj.HorizontalDistance,
			HorizontalRef:      wall.HorizontalRef(obj.HorizontalRef),
		}
		if spec.VerticalRef == "" {
			spec.VerticalRef = wall.VerticalCenter
		}
		if spec.MeasureFrom == "" {
			spec.MeasureFrom = wall.MeasureWallTop
		}
		if spec.Alignment == anchor.AlignNone && spec.HorizontalRef == "" {
			spec.HorizontalRef = wall.HorizontalCenter
		}
		if err := spec.Validate(); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "object %d", i+1)
		}
		out = append(out, Anchor{Spec: spec, Panels: slices.Clone(obj.Panels)})
	}
	return out, nil
}
