package batch

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/katalvlaran/unlock/accumulate"
	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/toggle"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("batch: invalid option supplied")

// Kind names the search a batch runs.
type Kind string

const (
	KindToggle     Kind = "toggle"
	KindAccumulate Kind = "accumulate"
)

// Observer receives per-machine progress. Calls arrive concurrently from
// worker goroutines.
type Observer interface {
	MachineStarted(kind Kind, index int, m *machine.Machine)
	MachineSolved(kind Kind, index, presses int, elapsed time.Duration)
	MachineFailed(kind Kind, index int, err error, elapsed time.Duration)
}

// NopObserver ignores every event.
type NopObserver struct{}

// MachineStarted does nothing.
func (NopObserver) MachineStarted(Kind, int, *machine.Machine) {}

// MachineSolved does nothing.
func (NopObserver) MachineSolved(Kind, int, int, time.Duration) {}

// MachineFailed does nothing.
func (NopObserver) MachineFailed(Kind, int, error, time.Duration) {}

// Observers fans every event out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}

	return list
}

type multiObserver []Observer

// MachineStarted forwards the event to every observer.
func (mo multiObserver) MachineStarted(k Kind, i int, m *machine.Machine) {
	for _, o := range mo {
		o.MachineStarted(k, i, m)
	}
}

// MachineSolved forwards the event to every observer.
func (mo multiObserver) MachineSolved(k Kind, i, presses int, d time.Duration) {
	for _, o := range mo {
		o.MachineSolved(k, i, presses, d)
	}
}

// MachineFailed forwards the event to every observer.
func (mo multiObserver) MachineFailed(k Kind, i int, err error, d time.Duration) {
	for _, o := range mo {
		o.MachineFailed(k, i, err, d)
	}
}

// Outcome is the result of one machine's search.
type Outcome struct {
	Index   int
	Presses int
	Err     error
	Elapsed time.Duration
}

// Summary aggregates a batch run.
type Summary struct {
	Kind Kind

	// Total is the sum of Presses over solved machines.
	Total int

	// Solved counts outcomes without error.
	Solved int

	// Outcomes holds one entry per input machine, in input order.
	Outcomes []Outcome
}

// Failed returns the outcomes that carry an error.
func (s Summary) Failed() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}

	return out
}

// MachineError ties a search failure to the machine that produced it.
type MachineError struct {
	Kind  Kind
	Index int
	Err   error
}

// Error reports the kind, index and cause.
func (e *MachineError) Error() string {
	return fmt.Sprintf("batch: %s machine %d: %v", e.Kind, e.Index, e.Err)
}

// Unwrap returns the search error.
func (e *MachineError) Unwrap() error { return e.Err }

// Options configures a batch run.
type Options struct {
	// Workers bounds concurrent searches. Default runtime.GOMAXPROCS(0).
	Workers int

	// FailFast cancels the remaining searches after the first failure.
	FailFast bool

	// Observer receives progress events. Default NopObserver.
	Observer Observer

	// Toggle and Accumulate are forwarded to every search of that kind.
	Toggle     []toggle.Option
	Accumulate []accumulate.Option

	err error
}

// Option configures a batch run via functional arguments.
type Option func(*Options)

// DefaultOptions returns one worker per available CPU, collect-all failure
// handling, and no observer.
func DefaultOptions() Options {
	return Options{
		Workers:  runtime.GOMAXPROCS(0),
		Observer: NopObserver{},
	}
}

// WithWorkers bounds concurrency. Zero keeps the default; negative values
// cause ErrOptionViolation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: Workers cannot be negative (%d)", ErrOptionViolation, n)
		case n > 0:
			o.Workers = n
		}
	}
}

// WithFailFast stops the batch on the first failure.
func WithFailFast() Option {
	return func(o *Options) {
		o.FailFast = true
	}
}

// WithObserver attaches a progress observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.Observer = obs
		}
	}
}

// WithToggleOptions forwards options to every toggle search.
func WithToggleOptions(opts ...toggle.Option) Option {
	return func(o *Options) {
		o.Toggle = append(o.Toggle, opts...)
	}
}

// WithAccumulateOptions forwards options to every accumulation search.
func WithAccumulateOptions(opts ...accumulate.Option) Option {
	return func(o *Options) {
		o.Accumulate = append(o.Accumulate, opts...)
	}
}
