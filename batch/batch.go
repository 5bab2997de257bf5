package batch

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/unlock/accumulate"
	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/toggle"
)

var tracer = otel.Tracer("github.com/katalvlaran/unlock/batch")

// solveFunc runs one search under ctx and returns its press count.
type solveFunc func(ctx context.Context, m *machine.Machine) (int, error)

// Toggle solves the toggle target of every machine and sums the presses.
// Machines are dispatched in input order.
func Toggle(ctx context.Context, machines []*machine.Machine, opts ...Option) (Summary, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Summary{}, err
	}
	base := cfg.Toggle
	solve := func(ctx context.Context, m *machine.Machine) (int, error) {
		o := append(slices.Clip(base), toggle.WithContext(ctx))
		res, err := toggle.Solve(m, o...)
		return res.Presses, err
	}
	order := make([]int, len(machines))
	for i := range order {
		order[i] = i
	}

	return run(ctx, KindToggle, machines, order, solve, cfg)
}

// Accumulate solves the counter target of every machine and sums the
// presses. Machines with fewer buttons are dispatched first; ties keep
// input order. Dispatch order only affects pacing, never the result.
func Accumulate(ctx context.Context, machines []*machine.Machine, opts ...Option) (Summary, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Summary{}, err
	}
	base := cfg.Accumulate
	solve := func(ctx context.Context, m *machine.Machine) (int, error) {
		o := append(slices.Clip(base), accumulate.WithContext(ctx))
		res, err := accumulate.SolveMachine(m, o...)
		return res.Presses, err
	}

	return run(ctx, KindAccumulate, machines, ByButtonCount(machines), solve, cfg)
}

// ByButtonCount returns machine indices ordered by ascending button count,
// a cheap proxy for branching factor. The sort is stable.
func ByButtonCount(machines []*machine.Machine) []int {
	order := make([]int, len(machines))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return buttonCount(machines[a]) - buttonCount(machines[b])
	})

	return order
}

func buttonCount(m *machine.Machine) int {
	if m == nil {
		return 0
	}
	return len(m.Buttons)
}

func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.err
}

// run dispatches machines in the given order onto a bounded errgroup and
// collects one Outcome per machine.
func run(ctx context.Context, kind Kind, machines []*machine.Machine, order []int, solve solveFunc, cfg Options) (Summary, error) {
	ctx, span := tracer.Start(ctx, "batch."+spanName(kind), trace.WithAttributes(
		attribute.String("unlock.kind", string(kind)),
		attribute.Int("unlock.machines", len(machines)),
		attribute.Int("unlock.workers", cfg.Workers),
		attribute.Bool("unlock.fail_fast", cfg.FailFast),
	))
	defer span.End()

	sum := Summary{Kind: kind, Outcomes: make([]Outcome, len(machines))}
	ran := make([]bool, len(machines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, idx := range order {
		if cfg.FailFast && gctx.Err() != nil {
			break
		}
		m := machines[idx]
		g.Go(func() error {
			ran[idx] = true
			out := &sum.Outcomes[idx]
			if err := gctx.Err(); err != nil {
				out.Err = err
				return nil
			}

			cfg.Observer.MachineStarted(kind, idx, m)
			start := time.Now()
			presses, err := solve(gctx, m)
			out.Elapsed = time.Since(start)
			if err != nil {
				out.Err = err
				cfg.Observer.MachineFailed(kind, idx, err, out.Elapsed)
				if cfg.FailFast {
					return &MachineError{Kind: kind, Index: idx, Err: err}
				}
				return nil
			}
			out.Presses = presses
			cfg.Observer.MachineSolved(kind, idx, presses, out.Elapsed)
			return nil
		})
	}
	firstErr := g.Wait()

	// Machines never dispatched keep a zero Outcome; mark them so
	// Summary.Failed reports them. Dispatch stops early after a fail-fast
	// failure or when ctx was already done.
	var stopErr error
	switch {
	case firstErr != nil:
		stopErr = context.Canceled
	case ctx.Err() != nil:
		stopErr = context.Cause(ctx)
	}
	var errs []error
	for i := range sum.Outcomes {
		out := &sum.Outcomes[i]
		out.Index = i
		if !ran[i] && stopErr != nil {
			out.Err = stopErr
		}
		if out.Err != nil {
			errs = append(errs, &MachineError{Kind: kind, Index: i, Err: out.Err})
			continue
		}
		sum.Total += out.Presses
		sum.Solved++
	}

	span.SetAttributes(
		attribute.Int("unlock.total", sum.Total),
		attribute.Int("unlock.solved", sum.Solved),
	)

	var err error
	switch {
	case firstErr != nil:
		err = firstErr
	case len(errs) > 0:
		err = errors.Join(errs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch incomplete")
	}

	return sum, err
}

func spanName(k Kind) string {
	if k == KindToggle {
		return "Toggle"
	}
	return "Accumulate"
}
