package wall

import (
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
)

// =============================================================================
// Reference Points - Single Source of Truth
// =============================================================================

// VerticalRef names the edge of an object a vertical distance refers to.
type VerticalRef string

const (
	VerticalTop    VerticalRef = "top"
	VerticalCenter VerticalRef = "center"
	VerticalBottom VerticalRef = "bottom"
)

// ParseVerticalRef converts user input to a VerticalRef.
func ParseVerticalRef(s string) (VerticalRef, error) {
	switch VerticalRef(s) {
	case VerticalTop, VerticalCenter, VerticalBottom:
		return VerticalRef(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid vertical reference %q (want top, center, or bottom)", s)
}

// HorizontalRef names the edge of an object a horizontal distance refers to.
type HorizontalRef string

const (
	HorizontalLeft   HorizontalRef = "left"
	HorizontalCenter HorizontalRef = "center"
	HorizontalRight  HorizontalRef = "right"
)

// ParseHorizontalRef converts user input to a HorizontalRef.
func ParseHorizontalRef(s string) (HorizontalRef, error) {
	switch HorizontalRef(s) {
	case HorizontalLeft, HorizontalCenter, HorizontalRight:
		return HorizontalRef(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid horizontal reference %q (want left, center, or right)", s)
}

// MeasureOrigin names where a vertical distance is measured from: the top
// of the wall, or the top of the covering panels.
type MeasureOrigin string

const (
	MeasureWallTop  MeasureOrigin = "wall_top"
	MeasurePanelTop MeasureOrigin = "panel_top"
)

// ParseMeasureOrigin converts user input to a MeasureOrigin.
func ParseMeasureOrigin(s string) (MeasureOrigin, error) {
	switch MeasureOrigin(s) {
	case MeasureWallTop, MeasurePanelTop:
		return MeasureOrigin(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid measurement origin %q (want wall_top or panel_top)", s)
}

// =============================================================================
// Object - Anchored Fixture
// =============================================================================

// Object is an auxiliary rectangle anchored to the wall: a thermostat, an
// outlet, a sconce. XPercent and YPercent always denote the object's
// center, normalized at creation time regardless of which reference point
// the user entered the position against; the reference fields are kept so
// the original intent can be re-edited.
type Object struct {
	ID             string          `json:"id" bson:"id"`
	Name           string          `json:"name,omitempty" bson:"name,omitempty"`
	Width          units.Dimension `json:"width" bson:"width"`
	Height         units.Dimension `json:"height" bson:"height"`
	XPercent       float64         `json:"x_percent" bson:"x_percent"`
	YPercent       float64         `json:"y_percent" bson:"y_percent"`
	VerticalRef    VerticalRef     `json:"vertical_ref" bson:"vertical_ref"`
	HorizontalRef  HorizontalRef   `json:"horizontal_ref" bson:"horizontal_ref"`
	MeasureFrom    MeasureOrigin   `json:"measure_from" bson:"measure_from"`
	AffectedPanels []int           `json:"affected_panel_ids,omitempty" bson:"affected_panel_ids,omitempty"`
}
