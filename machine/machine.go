package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/unlock/state"
)

// NewToggle builds a machine with only a toggle target of the given width.
func NewToggle(width int, target state.Lights, buttons ...Button) *Machine {
	return &Machine{Lights: target, Width: width, Buttons: buttons}
}

// NewAccumulate builds a machine with only an accumulation target. The
// target values are packed into 9-bit fields and must each be at most
// state.FieldMax.
func NewAccumulate(target []int, buttons ...Button) (*Machine, error) {
	c, err := state.PackCounters(target...)
	if err != nil {
		return nil, err
	}

	return &Machine{Joltages: c, Dim: len(target), Buttons: buttons}, nil
}

// MaxButtonSize returns the number of indices on the largest button.
func (m *Machine) MaxButtonSize() int {
	size := 0
	for _, b := range m.Buttons {
		size = max(size, len(b))
	}

	return size
}

// CheckToggle verifies the machine can be handed to a toggle search:
// at least one button, and every index a distinct light below Width.
func (m *Machine) CheckToggle() error {
	if m.Width < 0 {
		return fmt.Errorf("%w: width %d", ErrDimension, m.Width)
	}
	return m.check(min(m.Width, state.LightsWidth), "light")
}

// CheckAccumulate verifies the machine can be handed to an accumulation
// search: at least one button, and every index a distinct counter below Dim.
func (m *Machine) CheckAccumulate() error {
	if m.Dim < 0 {
		return fmt.Errorf("%w: dim %d", ErrDimension, m.Dim)
	}
	return m.check(min(m.Dim, state.MaxFields), "counter")
}

func (m *Machine) check(limit int, what string) error {
	if len(m.Buttons) == 0 {
		return ErrNoButtons
	}
	for bi, b := range m.Buttons {
		var seen uint64
		for _, idx := range b {
			if idx < 0 || idx >= limit {
				return fmt.Errorf("%w: button %d touches %s %d (have %d)", ErrButtonIndex, bi, what, idx, limit)
			}
			if seen&(1<<uint(idx)) != 0 {
				return fmt.Errorf("%w: button %d repeats %s %d", ErrButtonIndex, bi, what, idx)
			}
			seen |= 1 << uint(idx)
		}
	}

	return nil
}

// String renders the machine in the puzzle text format.
func (m *Machine) String() string {
	var b strings.Builder
	b.WriteString(m.Lights.Format(m.Width))
	for _, btn := range m.Buttons {
		b.WriteString(" (")
		for i, idx := range btn {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(idx))
		}
		b.WriteByte(')')
	}
	if m.Dim > 0 {
		b.WriteByte(' ')
		b.WriteString(m.Joltages.Format(m.Dim))
	}

	return b.String()
}
