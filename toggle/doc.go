// Package toggle finds the fewest button presses that light a machine's
// indicator diagram, using breadth-first search over packed light states.
//
// What
//
//   - States are state.Lights bit-vectors; the search starts from all-off.
//   - Pressing a button XORs its lights into the state, so every edge has
//     unit cost and every press is its own inverse.
//   - Returns a Result containing:
//   - Presses:  minimum number of presses (BFS depth of the target)
//   - Sequence: button indices of one shortest sequence (WithReturnPath)
//   - Explored: number of states dequeued
//   - Supports functional hooks at three stages:
//   - OnEnqueue (when a new state is discovered)
//   - OnDequeue (immediately before visiting)
//   - OnVisit   (when visiting; may abort with an error)
//
// Why
//
//   - BFS dequeues states in non-decreasing depth, so the first time the
//     target is dequeued its depth is minimal.
//   - The reachable space is at most 2^Width states; the visited set is a
//     roaring bitmap keyed by the raw state value.
//
// Determinism
//
//	Buttons are expanded in input order. The returned Presses never depends
//	on that order; Sequence and Explored may.
//
// Complexity (S = reachable states, B = buttons)
//
//   - Time:   O(S · B)
//   - Memory: O(S)      (queue, visited bitmap, optional parent map)
//
// Usage
//
//	res, err := toggle.Solve(m)
//	if errors.Is(err, machine.ErrUnreachable) {
//	    // the buttons cannot produce the diagram
//	}
//
//	res, err := toggle.Solve(
//	    m,
//	    toggle.WithContext(ctx),
//	    toggle.WithMaxStates(1<<16),
//	    toggle.WithReturnPath(),
//	    toggle.WithOnVisit(func(l state.Lights, depth int) error { return nil }),
//	)
//
// Errors
//
//   - ErrNilMachine            if the machine pointer is nil.
//   - ErrOptionViolation       for invalid options (e.g. negative MaxStates).
//   - machine.ErrNoButtons, machine.ErrButtonIndex, machine.ErrDimension
//     from validation.
//   - machine.ErrUnreachable   if the frontier empties first.
//   - machine.ErrSearchLimit   if MaxStates states were explored first.
//   - Wrapped OnVisit errors and context errors.
package toggle
