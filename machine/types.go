// Package machine defines the unlock-puzzle Machine shared by the toggle and
// accumulate searches, the error taxonomy they report, and a decoder for the
// puzzle text format.
package machine

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/unlock/state"
)

// Sentinel errors shared by every search.
var (
	// ErrUnreachable is returned when the frontier empties without reaching
	// the target. Puzzle construction guarantees reachability, so this
	// signals a malformed machine rather than a search bug.
	ErrUnreachable = errors.New("machine: target unreachable")

	// ErrSearchLimit is returned when a configured exploration cap is hit
	// before the target is reached.
	ErrSearchLimit = errors.New("machine: search limit exceeded")

	// ErrNoButtons is returned for a machine without buttons.
	ErrNoButtons = errors.New("machine: no buttons")

	// ErrButtonIndex is returned when a button touches a light or counter
	// the machine does not have, or touches the same one twice.
	ErrButtonIndex = errors.New("machine: invalid button index")

	// ErrDimension is returned for a negative light width or counter count.
	ErrDimension = errors.New("machine: negative dimension")

	// ErrSyntax is returned by the decoder for malformed puzzle text.
	ErrSyntax = errors.New("machine: syntax error")
)

// Button lists the light or counter indices a single press affects.
type Button []int

// Machine is one unlock puzzle: a toggle target, an accumulation target and
// the buttons that drive both. A Machine is immutable once built and may be
// shared by concurrent searches.
type Machine struct {
	// Lights is the toggle target; Width is the number of lights.
	Lights state.Lights
	Width  int

	// Joltages is the accumulation target; Dim is the number of counters.
	Joltages state.Counters
	Dim      int

	// Buttons in input order.
	Buttons []Button
}

// ParseError reports the input line a decoding failure occurred on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("machine: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
