package units

import "fmt"

// SixteenthsPerInch is the resolution of the dimension model. Installers
// work to the nearest sixteenth of an inch; nothing in the engine carries
// finer precision than this.
const SixteenthsPerInch = 16

// Fraction is a sub-inch length expressed in sixteenths of an inch.
// Valid values are 0 through 15; a value of 16 would be a whole inch and
// is normalized away by [Dimension] constructors.
type Fraction int

// Valid reports whether the fraction is within the representable range.
func (f Fraction) Valid() bool { return f >= 0 && f < SixteenthsPerInch }

// Float returns the fraction as a decimal inch value (e.g. 8 → 0.5).
func (f Fraction) Float() float64 { return float64(f) / SixteenthsPerInch }

// String renders the fraction in lowest terms ("1/2" for 8 sixteenths).
// The zero fraction renders as an empty string so formatted dimensions can
// omit it entirely.
func (f Fraction) String() string {
	if f == 0 {
		return ""
	}
	num, den := int(f), SixteenthsPerInch
	for num%2 == 0 {
		num /= 2
		den /= 2
	}
	return fmt.Sprintf("%d/%d", num, den)
}
