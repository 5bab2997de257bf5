package toggle

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/state"
)

// queueItem pairs a light state with its BFS depth.
type queueItem struct {
	lights state.Lights
	depth  int
}

// step records how a state was first reached.
type step struct {
	prev   state.Lights
	button int
}

// walker encapsulates mutable BFS state for one Solve call.
type walker struct {
	target   state.Lights
	masks    []state.Lights
	opts     Options
	ctx      context.Context
	queue    []queueItem
	visited  *roaring.Bitmap
	parent   map[state.Lights]step
	explored int
}

// Solve runs breadth-first search from the all-off state to m.Lights,
// applying any number of functional Options.
// Returns ErrNilMachine for a nil machine, ErrOptionViolation for bad
// options, machine validation errors, machine.ErrUnreachable when the
// target cannot be produced, machine.ErrSearchLimit when MaxStates is hit,
// or any hook or context error.
func Solve(m *machine.Machine, opts ...Option) (Result, error) {
	if m == nil {
		return Result{}, ErrNilMachine
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Result{}, o.err
	}
	if err := m.CheckToggle(); err != nil {
		return Result{}, err
	}

	// A button's effect never changes, so fold it into one XOR mask.
	masks := make([]state.Lights, len(m.Buttons))
	for i, b := range m.Buttons {
		masks[i] = state.Mask(b)
	}

	w := &walker{
		target:  m.Lights,
		masks:   masks,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, 1<<min(m.Width, 12)),
		visited: roaring.New(),
	}
	if o.ReturnPath {
		w.parent = make(map[state.Lights]step)
	}

	w.enqueue(0, 0)

	return w.loop()
}

// enqueue marks l visited, calls OnEnqueue and appends it to the queue.
func (w *walker) enqueue(l state.Lights, depth int) {
	w.visited.Add(uint32(l))
	w.opts.OnEnqueue(l, depth)
	w.queue = append(w.queue, queueItem{lights: l, depth: depth})
}

// loop processes the queue until the target is found, the queue empties,
// a limit or hook stops it, or the context is cancelled.
func (w *walker) loop() (Result, error) {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return Result{}, w.ctx.Err()
		default:
		}

		item := w.dequeue()
		if err := w.visit(item); err != nil {
			return Result{}, err
		}
		if item.lights == w.target {
			return w.result(item), nil
		}
		if w.opts.MaxStates > 0 && w.explored >= w.opts.MaxStates {
			return Result{}, fmt.Errorf("%w: %d states explored without reaching %032b",
				machine.ErrSearchLimit, w.explored, uint32(w.target))
		}
		w.expand(item)
	}

	return Result{}, fmt.Errorf("%w: %d states reachable, none equal to %032b",
		machine.ErrUnreachable, w.explored, uint32(w.target))
}

// dequeue pops the first item, invokes OnDequeue, and returns it.
func (w *walker) dequeue() queueItem {
	item := w.queue[0]
	w.queue = w.queue[1:]
	w.opts.OnDequeue(item.lights, item.depth)
	return item
}

// visit counts the state and calls OnVisit.
func (w *walker) visit(item queueItem) error {
	w.explored++
	if err := w.opts.OnVisit(item.lights, item.depth); err != nil {
		return fmt.Errorf("toggle: OnVisit error at %032b: %w", uint32(item.lights), err)
	}
	return nil
}

// expand presses every button once and enqueues each unseen child.
func (w *walker) expand(item queueItem) {
	next := item.depth + 1
	for bi, mask := range w.masks {
		child := item.lights ^ mask
		if w.visited.Contains(uint32(child)) {
			continue
		}
		if w.parent != nil {
			w.parent[child] = step{prev: item.lights, button: bi}
		}
		w.enqueue(child, next)
	}
}

// result builds the Result for the dequeued target, rebuilding the press
// sequence from parent links when requested.
func (w *walker) result(item queueItem) Result {
	res := Result{Presses: item.depth, Explored: w.explored}
	if w.parent == nil {
		return res
	}
	seq := make([]int, item.depth)
	cur := item.lights
	for i := item.depth - 1; i >= 0; i-- {
		s := w.parent[cur]
		seq[i] = s.button
		cur = s.prev
	}
	res.Sequence = seq

	return res
}
