package report

import (
	"fmt"
	"math"
)

// palette is the fixed color cycle for non-reference (competitor) series.
var palette = []string{
	"5B9BD5", "ED7D31", "FFC000", "4472C4",
	"A5A5A5", "FF6666", "8E44AD", "2C3E50",
}

// GreenShades returns n green shades for the reference product family,
// evenly spaced from saturated dark green to a pale light green so each
// family member stays distinguishable while the family reads as one group.
func GreenShades(n int) []string {
	if n <= 0 {
		return nil
	}
	shades := make([]string, n)
	steps := float64(n - 1)
	if steps == 0 {
		steps = 1
	}
	for i := 0; i < n; i++ {
		frac := float64(i) / steps
		r, g, b := hsvToRGB(120.0/360.0, 1-0.4*frac, 0.502+0.4*frac)
		shades[i] = fmt.Sprintf("%02X%02X%02X", r, g, b)
	}
	return shades
}

// PaletteColor returns the competitor color for the series at the given
// position, cycling through the fixed palette.
func PaletteColor(position int) string {
	if position < 0 {
		position = 0
	}
	return palette[position%len(palette)]
}

// hsvToRGB converts HSV in [0,1] to 8-bit RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(math.Round(r * 255)), uint8(math.Round(g * 255)), uint8(math.Round(b * 255))
}
