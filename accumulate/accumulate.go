package accumulate

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/state"
)

// checkEvery is the expansion interval between context checks.
const checkEvery = 1024

// SolveMachine is Solve with maxButtonSize taken from m.MaxButtonSize().
func SolveMachine(m *machine.Machine, opts ...Option) (Result, error) {
	if m == nil {
		return Result{}, ErrNilMachine
	}

	return Solve(m, m.MaxButtonSize(), opts...)
}

// Solve computes the minimum number of presses that take every counter of
// m from zero to exactly m.Joltages, never pushing a counter past its target.
//
// maxButtonSize bounds how many counters a single press can advance; it
// feeds the heuristic and must be at least m.MaxButtonSize().
//
// Preconditions and validation (in order):
//  1. m must be non-nil (ErrNilMachine).
//  2. Options must be valid (ErrOptionViolation).
//  3. m must pass CheckAccumulate (machine.ErrNoButtons, machine.ErrButtonIndex,
//     machine.ErrDimension).
//  4. maxButtonSize ≥ max(1, m.MaxButtonSize()) (ErrBadButtonSize).
//
// Returns machine.ErrUnreachable if the frontier empties and
// machine.ErrSearchLimit if MaxExpansions is exceeded.
func Solve(m *machine.Machine, maxButtonSize int, opts ...Option) (Result, error) {
	// 1) Validate inputs and options.
	if m == nil {
		return Result{}, ErrNilMachine
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return Result{}, cfg.err
	}
	if err := m.CheckAccumulate(); err != nil {
		return Result{}, err
	}
	if maxButtonSize < max(1, m.MaxButtonSize()) {
		return Result{}, fmt.Errorf("%w: %d (largest button has %d counters)",
			ErrBadButtonSize, maxButtonSize, m.MaxButtonSize())
	}

	// 2) Unpack the target once; expansion compares against it per counter.
	goal := m.Joltages.Values(m.Dim)

	r := &runner{
		target:  m.Joltages,
		goal:    goal,
		dim:     m.Dim,
		maxSize: maxButtonSize,
		buttons: m.Buttons,
		options: cfg,
		ctx:     cfg.Ctx,
		best:    make(map[state.Counters]int),
		pq:      make(nodePQ, 0, 64),
	}
	if cfg.ReturnPath {
		r.prev = make(map[state.Counters]link)
	}

	// 3) Seed with the zero state and run the main loop.
	r.init()

	return r.process()
}

// link records the cheapest known way into a state.
type link struct {
	from   state.Counters
	button int
}

// runner holds the mutable state for a single Solve execution.
type runner struct {
	target  state.Counters
	goal    []int // target unpacked, one entry per counter
	dim     int
	maxSize int
	buttons []machine.Button
	options Options
	ctx     context.Context

	best map[state.Counters]int  // lowest cost each state has been reached at
	prev map[state.Counters]link // predecessors when ReturnPath is set
	pq   nodePQ

	expanded int
	pushed   int
}

// init records the zero state at cost 0 and pushes it.
func (r *runner) init() {
	var zero state.Counters
	r.best[zero] = 0
	heap.Init(&r.pq)
	r.push(zero, 0)
}

func (r *runner) push(s state.Counters, cost int) {
	heap.Push(&r.pq, nodeItem{
		counters:  s,
		cost:      cost,
		heuristic: Heuristic(s, r.target, r.dim, r.maxSize),
	})
	r.pushed++
}

// process pops states in ascending cost+heuristic order until the target is
// popped, the heap empties, the expansion cap is hit, or ctx is cancelled.
func (r *runner) process() (Result, error) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(nodeItem)

		// Skip entries superseded by a cheaper path found after insertion.
		if item.cost > r.best[item.counters] {
			continue
		}
		if item.counters == r.target {
			return r.result(item.cost), nil
		}

		if r.options.MaxExpansions > 0 && r.expanded >= r.options.MaxExpansions {
			return Result{}, fmt.Errorf("%w: %d states expanded, best bound %d",
				machine.ErrSearchLimit, r.expanded, item.cost+item.heuristic)
		}
		if r.expanded%checkEvery == 0 {
			if err := r.ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		r.expanded++
		r.options.OnExpand(item.counters, item.cost, item.heuristic)

		r.expand(item)
	}

	return Result{}, fmt.Errorf("%w: %d states expanded, target %s never reached",
		machine.ErrUnreachable, r.expanded, r.target.Format(r.dim))
}

// expand presses every applicable button once from item's state. A button
// that lists any counter already at its goal is skipped as a whole.
func (r *runner) expand(item nodeItem) {
	cost := item.cost + 1
buttons:
	for bi, b := range r.buttons {
		child := item.counters
		for _, idx := range b {
			if item.counters.Field(idx) == r.goal[idx] {
				continue buttons
			}
			child = child.Increment(idx)
		}

		// Relax only on a strictly cheaper path.
		if old, seen := r.best[child]; seen && cost >= old {
			continue
		}
		r.best[child] = cost
		if r.prev != nil {
			r.prev[child] = link{from: item.counters, button: bi}
		}
		r.push(child, cost)
	}
}

// result packages the answer, rebuilding the press sequence if requested.
func (r *runner) result(cost int) Result {
	res := Result{Presses: cost, Expanded: r.expanded, Pushed: r.pushed}
	if r.prev == nil {
		return res
	}
	seq := make([]int, cost)
	cur := r.target
	for i := cost - 1; i >= 0; i-- {
		l := r.prev[cur]
		seq[i] = l.button
		cur = l.from
	}
	res.Sequence = seq

	return res
}

// nodeItem is a frontier entry: a state, the cost it was reached at, and
// its heuristic estimate.
type nodeItem struct {
	counters  state.Counters
	cost      int
	heuristic int
}

// nodePQ is a min-heap of nodeItem ordered by cost+heuristic, ties broken
// by the larger packed state first.
type nodePQ []nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less orders by f = cost+heuristic ascending, then packed state descending.
func (pq nodePQ) Less(i, j int) bool {
	fi := pq[i].cost + pq[i].heuristic
	fj := pq[j].cost + pq[j].heuristic
	if fi != fj {
		return fi < fj
	}

	return pq[i].counters.Compare(pq[j].counters) > 0
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap; x must be a nodeItem.
func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

// Pop removes and returns the last element of the backing slice.
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
