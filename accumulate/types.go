package accumulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/unlock/state"
)

// Sentinel errors returned by Solve.
var (
	// ErrNilMachine indicates that a nil *machine.Machine was passed.
	ErrNilMachine = errors.New("accumulate: machine is nil")

	// ErrBadButtonSize indicates that maxButtonSize cannot bound the
	// per-press progress of the machine's buttons.
	ErrBadButtonSize = errors.New("accumulate: invalid max button size")

	// ErrOptionViolation indicates an invalid functional option.
	ErrOptionViolation = errors.New("accumulate: invalid option supplied")
)

// Options configures the behavior of Solve.
type Options struct {
	// Ctx allows cancellation; it is checked every checkEvery expansions.
	Ctx context.Context

	// MaxExpansions, if > 0, aborts with machine.ErrSearchLimit after this
	// many expanded states. Default 0 (no cap).
	MaxExpansions int

	// ReturnPath records predecessors so Result.Sequence can be rebuilt.
	ReturnPath bool

	// OnExpand is called for every state about to be expanded.
	OnExpand func(s state.Counters, cost, heuristic int)

	err error
}

// Option represents a functional option for configuring Solve.
type Option func(*Options)

// DefaultOptions returns Options with a background context, no expansion
// cap, no path recording and a no-op OnExpand.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		OnExpand: func(state.Counters, int, int) {},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxExpansions caps the number of expanded states. Zero means no cap;
// negative values cause ErrOptionViolation.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}

// WithReturnPath enables Result.Sequence.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithOnExpand registers a callback invoked for each expanded state.
func WithOnExpand(fn func(s state.Counters, cost, heuristic int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// Result holds the outcome of an accumulation search.
type Result struct {
	// Presses is the minimum number of button presses.
	Presses int

	// Sequence lists button indices of one optimal press sequence.
	// Nil unless WithReturnPath was given.
	Sequence []int

	// Expanded counts states whose children were generated.
	Expanded int

	// Pushed counts heap insertions, duplicates included.
	Pushed int
}
