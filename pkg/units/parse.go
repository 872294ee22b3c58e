package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a dimension in shop notation. Accepted forms:
//
//	12'-4 1/2"   feet, inches, fraction
//	12'-4"       feet and inches
//	12' 4 1/2"   space instead of hyphen after the feet mark
//	12'          whole feet
//	4 1/2"       inches and fraction
//	3/16"        bare fraction
//	48"          whole inches
//	48.5         decimal inches (snapped to the nearest sixteenth)
//
// The trailing inch mark is optional. Fractions must have a power-of-two
// denominator no finer than sixteenths. Negative lengths are rejected.
func Parse(s string) (Dimension, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}, fmt.Errorf("empty dimension")
	}
	if strings.HasPrefix(s, "-") {
		return Dimension{}, fmt.Errorf("dimension %q: lengths cannot be negative", raw)
	}

	feet := 0
	if i := strings.IndexByte(s, '\''); i >= 0 {
		f, err := strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil || f < 0 {
			return Dimension{}, fmt.Errorf("dimension %q: bad feet part", raw)
		}
		feet = f
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s[i+1:]), "-"))
		if s == "" {
			return FromFeetInches(feet, 0, 0), nil
		}
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "\""))
	if s == "" {
		return FromFeetInches(feet, 0, 0), nil
	}

	// Decimal inches stand alone: no feet part and no fraction part.
	if feet == 0 && strings.ContainsRune(s, '.') && !strings.ContainsRune(s, '/') {
		in, err := strconv.ParseFloat(s, 64)
		if err != nil || in < 0 {
			return Dimension{}, fmt.Errorf("dimension %q: bad decimal inches", raw)
		}
		return FromInches(in), nil
	}

	inchPart := s
	fracPart := ""
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		inchPart, fracPart = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	} else if strings.ContainsRune(s, '/') {
		inchPart, fracPart = "", s
	}

	inches := 0
	if inchPart != "" {
		n, err := strconv.Atoi(inchPart)
		if err != nil || n < 0 {
			return Dimension{}, fmt.Errorf("dimension %q: bad inches part", raw)
		}
		inches = n
	}

	var frac Fraction
	if fracPart != "" {
		f, err := parseFraction(fracPart)
		if err != nil {
			return Dimension{}, fmt.Errorf("dimension %q: %v", raw, err)
		}
		frac = f
	}

	return FromFeetInches(feet, inches, frac), nil
}

// parseFraction converts "num/den" to sixteenths. The denominator must
// divide sixteen so the value is representable without rounding.
func parseFraction(s string) (Fraction, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("bad fraction %q", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad fraction numerator %q", num)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d <= 0 || SixteenthsPerInch%d != 0 {
		return 0, fmt.Errorf("fraction denominator %q must divide %d", den, SixteenthsPerInch)
	}
	return Fraction(n * (SixteenthsPerInch / d)), nil
}

// MarshalText renders the dimension in shop notation, making Dimension
// usable directly in TOML manifests and JSON payloads.
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses shop notation, the inverse of MarshalText.
func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
