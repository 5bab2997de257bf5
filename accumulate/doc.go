// Package accumulate finds the fewest button presses that bring a machine's
// counters exactly to their target values, using A* over packed counter
// states.
//
// Every counter starts at zero. Pressing a button adds one to each counter
// it lists. A button is inapplicable from a state if any counter it lists
// has already reached its target: pressing it would overshoot, and counters
// never decrease, so that state could never reach the target afterwards.
// Such buttons are skipped entirely, never applied partially.
//
// Heuristic:
//
//	For a state s and target t let diff_i = t_i - s_i. Two lower bounds on
//	the presses still needed are combined with max:
//	  • max_i diff_i: one press adds at most one to any single counter.
//	  • ceil(Σ diff_i / maxButtonSize): one press adds at most
//	    maxButtonSize units in total.
//	The maximum of two admissible bounds is admissible. Their sum is not,
//	and would make the returned count non-minimal.
//
// Ordering:
//
//	The frontier is a binary heap ordered by ascending cost+heuristic; ties
//	go to the larger packed state, which makes exploration reproducible.
//
// Complexity:
//
//   - Time:  O(S · B · log F) where S = expanded states, B = buttons,
//     F = frontier size (lazy decrease-key may hold duplicates).
//   - Space: O(S + F) for the best-cost map and the heap.
//
// Notes on implementation choices:
//
//   - Lazy decrease-key: a cheaper path pushes a fresh entry; the old one
//     is skipped when popped because its cost exceeds the best known cost.
//   - The first non-stale pop of the target is optimal because the
//     heuristic never overestimates.
//
// Errors (sentinel):
//
//   - ErrNilMachine      if the machine pointer is nil.
//   - ErrBadButtonSize   if maxButtonSize is not positive or is smaller
//     than the machine's largest button.
//   - ErrOptionViolation for invalid options.
//   - machine.ErrUnreachable, machine.ErrSearchLimit.
package accumulate
