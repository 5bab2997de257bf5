package state

import (
	"fmt"
	"strings"
)

// Lights is a bit-vector of indicator lights; bit i set means light i is on.
type Lights uint32

// PackBits returns the Lights value with exactly the given positions set.
// Repeated positions are harmless. Positions outside [0, LightsWidth) yield
// ErrBitPosition.
func PackBits(positions ...int) (Lights, error) {
	var l Lights
	for _, p := range positions {
		if p < 0 || p >= LightsWidth {
			return 0, fmt.Errorf("%w: %d (width %d)", ErrBitPosition, p, LightsWidth)
		}
		l |= 1 << uint(p)
	}

	return l, nil
}

// Toggle flips every light listed in button. Indices are assumed valid.
func (l Lights) Toggle(button []int) Lights {
	for _, p := range button {
		l ^= 1 << uint(p)
	}

	return l
}

// Mask returns the XOR mask a button applies, so repeated toggles can be
// done with a single XOR.
func Mask(button []int) Lights {
	return Lights(0).Toggle(button)
}

// On reports whether light p is lit.
func (l Lights) On(p int) bool {
	return p >= 0 && p < LightsWidth && l&(1<<uint(p)) != 0
}

// Format renders the first width lights in puzzle notation, '#' for on and
// '.' for off, e.g. "[.##.]".
func (l Lights) Format(width int) string {
	var b strings.Builder
	b.Grow(width + 2)
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		if l.On(i) {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	b.WriteByte(']')

	return b.String()
}
