// Package units implements the imperial dimension model used throughout
// panelplan: lengths as whole feet, whole inches, and a sixteenth-inch
// fraction.
//
// The model guarantees lossless round-trips between the structured form
// and a flat decimal inch count: for every representable sixteenth,
// FromInches(d.ToInches()) == d. Conversion from arbitrary decimal inches
// snaps to the nearest sixteenth with ties breaking toward the larger
// fraction, and applies a small epsilon so values a hair under a boundary
// (0.9999999") land on the next whole inch instead of truncating to 15/16.
package units

import (
	"math"
	"strconv"
)

// roundEps compensates for accumulated floating-point error when snapping
// decimal inches to sixteenths. It is far smaller than half a sixteenth, so
// it can only promote values already within noise of a boundary.
const roundEps = 1e-9

// Dimension is a length in feet, inches, and sixteenths of an inch.
// A normalized Dimension keeps Inches in 0..11 and Frac in 0..15; all
// constructors in this package return normalized values. The zero value
// is a usable zero-length dimension.
type Dimension struct {
	Feet   int      `bson:"feet"`
	Inches int      `bson:"inches"`
	Frac   Fraction `bson:"sixteenths"`
}

// FromFeetInches builds a normalized Dimension from its parts. Overflowing
// fractions carry into inches and overflowing inches carry into feet, so
// FromFeetInches(0, 12, 0) yields 1'-0". Negative parts are clamped to zero;
// lengths cannot be negative.
func FromFeetInches(feet, inches int, frac Fraction) Dimension {
	total := feet*12*SixteenthsPerInch + inches*SixteenthsPerInch + int(frac)
	if total < 0 {
		total = 0
	}
	return fromSixteenths(total)
}

// FromInches converts a decimal inch count to the nearest representable
// Dimension. Ties between adjacent sixteenths resolve toward the larger
// fraction. Negative inputs clamp to zero.
func FromInches(in float64) Dimension {
	if in <= 0 {
		return Dimension{}
	}
	sixteenths := int(math.Floor(in*SixteenthsPerInch + 0.5 + roundEps))
	return fromSixteenths(sixteenths)
}

func fromSixteenths(total int) Dimension {
	if total < 0 {
		total = 0
	}
	const perFoot = 12 * SixteenthsPerInch
	d := Dimension{Feet: total / perFoot}
	rem := total % perFoot
	d.Inches = rem / SixteenthsPerInch
	d.Frac = Fraction(rem % SixteenthsPerInch)
	return d
}

// ToInches returns the dimension as a flat decimal inch count. Sixteenths
// are exactly representable in binary floating point, so the conversion is
// exact and FromInches(d.ToInches()) == d for any normalized d.
func (d Dimension) ToInches() float64 {
	return float64(d.Feet*12+d.Inches) + d.Frac.Float()
}

// IsZero reports whether the dimension is exactly zero length.
func (d Dimension) IsZero() bool {
	return d.Feet == 0 && d.Inches == 0 && d.Frac == 0
}

// Normalized returns the dimension with inch and fraction overflow carried
// upward. Dimensions built by this package's constructors are already
// normalized; this exists for values populated field-by-field (e.g. decoded
// from BSON or built by tests).
func (d Dimension) Normalized() Dimension {
	return FromFeetInches(d.Feet, d.Inches, d.Frac)
}

// String renders the dimension in shop-drawing notation:
//
//	4'-6 1/2"   feet, inches, and fraction
//	4'-6"       fraction omitted when zero
//	4'          inches and fraction omitted when both zero
//	6 1/2"      feet omitted when zero
//	0"          zero length
func (d Dimension) String() string {
	n := d.Normalized()
	ft := strconv.Itoa(n.Feet)
	in := strconv.Itoa(n.Inches)
	switch {
	case n.Feet > 0 && n.Inches == 0 && n.Frac == 0:
		return ft + "'"
	case n.Feet > 0 && n.Frac == 0:
		return ft + "'-" + in + "\""
	case n.Feet > 0:
		return ft + "'-" + in + " " + n.Frac.String() + "\""
	case n.Inches == 0 && n.Frac != 0:
		return n.Frac.String() + "\""
	case n.Frac != 0:
		return in + " " + n.Frac.String() + "\""
	default:
		return in + "\""
	}
}
