package toggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/unlock/state"
)

// Sentinel errors for toggle search.
var (
	// ErrNilMachine is returned if a nil machine pointer is passed.
	ErrNilMachine = errors.New("toggle: machine is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("toggle: invalid option supplied")
)

// Option configures Solve via functional arguments.
// Invalid options are recorded and surfaced as ErrOptionViolation when
// Solve is invoked.
type Option func(*Options)

// Options holds parameters and callbacks that customize the search.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// MaxStates, if > 0, aborts with machine.ErrSearchLimit once this many
	// states have been dequeued without reaching the target.
	MaxStates int

	// ReturnPath records parent links so Result.Sequence can be rebuilt.
	ReturnPath bool

	// OnEnqueue is called when a state is first discovered.
	OnEnqueue func(l state.Lights, depth int)

	// OnDequeue is called immediately before visiting a state.
	OnDequeue func(l state.Lights, depth int)

	// OnVisit is called when visiting a state. A non-nil error aborts the
	// search and is returned wrapped.
	OnVisit func(l state.Lights, depth int) error

	err error
}

// DefaultOptions returns Options with background context, no state cap,
// no path recording and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		OnEnqueue: func(state.Lights, int) {},
		OnDequeue: func(state.Lights, int) {},
		OnVisit:   func(state.Lights, int) error { return nil },
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

// WithMaxStates caps the number of dequeued states.
//
//	n > 0: cap at n
//	n == 0: explicit no cap
//	n < 0: invalid option → ErrOptionViolation
func WithMaxStates(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxStates cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxStates = n
	}
}

// WithReturnPath enables Result.Sequence.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithOnEnqueue registers a callback to run when a state is discovered.
func WithOnEnqueue(fn func(l state.Lights, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnDequeue registers a callback to run on dequeue.
func WithOnDequeue(fn func(l state.Lights, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnDequeue = fn
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the search.
func WithOnVisit(fn func(l state.Lights, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Result holds the outcome of a toggle search.
type Result struct {
	// Presses is the minimum number of button presses.
	Presses int

	// Sequence lists button indices of one shortest press sequence, in
	// press order. Nil unless WithReturnPath was given.
	Sequence []int

	// Explored counts dequeued states, the target included.
	Explored int
}
